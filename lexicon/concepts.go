// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package lexicon

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/poiesic/lexlink/cdb"
	"github.com/poiesic/lexlink/core"
)

// Concept CSV columns. The cui and name columns are required; the rest
// default to empty when absent.
const (
	columnCUI       = "cui"
	columnName      = "name"
	columnPreferred = "preferred"
	columnType      = "type"
	columnFrequency = "frequency"
)

// ReadConcepts parses concept records from CSV. The first row is a header
// naming the columns; rows map to cdb.Record one-to-one, so several rows may
// share a CUI and merge at build time. The type column may carry multiple
// tags separated by ';'.
func ReadConcepts(r io.Reader) ([]cdb.Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrMissingHeader
		}
		return nil, err
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{columnCUI, columnName} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	field := func(row []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var records []cdb.Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		record := cdb.Record{
			CUI:  core.CUI(field(row, columnCUI)),
			Name: field(row, columnName),
		}
		if record.CUI == "" || record.Name == "" {
			return nil, fmt.Errorf("%w: line %d: empty cui or name", ErrMalformedRecord, line)
		}

		if raw := field(row, columnPreferred); raw != "" {
			preferred, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: preferred %q", ErrMalformedRecord, line, raw)
			}
			record.Preferred = preferred
		}

		if raw := field(row, columnType); raw != "" {
			for _, tag := range strings.Split(raw, ";") {
				if tag = strings.TrimSpace(tag); tag != "" {
					record.Types = append(record.Types, tag)
				}
			}
		}

		if raw := field(row, columnFrequency); raw != "" {
			frequency, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: frequency %q", ErrMalformedRecord, line, raw)
			}
			record.Frequency = frequency
		}

		records = append(records, record)
	}

	return records, nil
}

// ReadConceptsFile reads concept records from a CSV file.
func ReadConceptsFile(path string) ([]cdb.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadConcepts(f)
}
