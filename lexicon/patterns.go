package lexicon

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/poiesic/lexlink/core"
)

// patternRecord is the JSON shape of one combined-pattern definition.
type patternRecord struct {
	CUI        string   `json:"cui"`
	Components []string `json:"components"`
	MaxGap     int      `json:"max_gap"`
}

// ReadPatterns parses combined-pattern definitions from a JSON array of
// {cui, components, max_gap} objects. Structural validation (component count,
// gap bounds, owning concept) happens later at build time; here only the
// document shape is checked.
func ReadPatterns(r io.Reader) ([]*core.CombinedPattern, error) {
	var raw []patternRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}

	patterns := make([]*core.CombinedPattern, 0, len(raw))
	for i, record := range raw {
		if record.CUI == "" {
			return nil, fmt.Errorf("%w: pattern %d: empty cui", ErrMalformedRecord, i)
		}
		patterns = append(patterns, &core.CombinedPattern{
			CUI:        core.CUI(record.CUI),
			Components: record.Components,
			MaxGap:     record.MaxGap,
		})
	}

	return patterns, nil
}

// ReadPatternsFile reads combined-pattern definitions from a JSON file.
func ReadPatternsFile(path string) ([]*core.CombinedPattern, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadPatterns(f)
}
