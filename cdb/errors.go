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


package cdb

import "errors"

// Build errors. A failed build leaves no partially constructed database;
// the caller's previous instance, if any, remains valid.
var (
	// ErrDuplicateIdentifier is returned when two input records claim the
	// same concept identifier with conflicting preferred names.
	ErrDuplicateIdentifier = errors.New("duplicate concept identifier")

	// ErrEmptyNameSet is returned when a concept ends up with zero usable names.
	ErrEmptyNameSet = errors.New("concept has no names")

	// ErrUnknownPatternConcept is returned when a combined pattern references
	// a concept identifier absent from the name records.
	ErrUnknownPatternConcept = errors.New("pattern references unknown concept")
)
