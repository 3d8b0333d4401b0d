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


package core

import "fmt"

// ValidateConcept validates a Concept according to domain rules.
//
// Validation rules:
//   - CUI must not be empty
//   - Names must contain at least one entry
//   - PreferredName must be one of Names
//
// NOT validated (populated later):
//   - Vector (can be empty until the concept is embedded)
//   - Frequency (zero is a valid observed count)
func ValidateConcept(concept *Concept) error {
	if concept == nil {
		return fmt.Errorf("%w: concept is nil", ErrInvalidConcept)
	}

	if concept.CUI == "" {
		return fmt.Errorf("%w: %w", ErrInvalidConcept, ErrEmptyCUI)
	}

	if len(concept.Names) == 0 {
		return fmt.Errorf("%w: %w (%s)", ErrInvalidConcept, ErrEmptyNameSet, concept.CUI)
	}

	if concept.PreferredName != "" && !concept.HasName(concept.PreferredName) {
		return fmt.Errorf("%w: %w (%s)", ErrInvalidConcept, ErrPreferredNameUnknown, concept.CUI)
	}

	return nil
}

// ValidatePattern validates a CombinedPattern according to domain rules.
//
// Validation rules:
//   - CUI must not be empty
//   - Components must have length >= 2 and no empty entries
//   - MaxGap must be >= 0
func ValidatePattern(pattern *CombinedPattern) error {
	if pattern == nil {
		return fmt.Errorf("%w: pattern is nil", ErrInvalidPattern)
	}

	if pattern.CUI == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPattern, ErrEmptyCUI)
	}

	if len(pattern.Components) < 2 {
		return fmt.Errorf("%w: %w (%s)", ErrInvalidPattern, ErrTooFewComponents, pattern.CUI)
	}

	for _, component := range pattern.Components {
		if component == "" {
			return fmt.Errorf("%w: %w (%s)", ErrInvalidPattern, ErrEmptyComponent, pattern.CUI)
		}
	}

	if pattern.MaxGap < 0 {
		return fmt.Errorf("%w: %w (%s)", ErrInvalidPattern, ErrNegativeMaxGap, pattern.CUI)
	}

	return nil
}

// ValidateDocument validates a tokenized document before matching.
// A malformed document is rejected as a whole; it never silently yields
// partial annotations.
//
// Validation rules:
//   - every token must satisfy 0 <= Start < End <= len(Text)
//   - tokens must be ordered and non-overlapping
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	prevEnd := 0
	for i, token := range doc.Tokens {
		if token.Start < 0 || token.End > len(doc.Text) || token.Start >= token.End {
			return fmt.Errorf("%w: %w (token %d %q [%d,%d))",
				ErrInvalidDocument, ErrTokenOutOfBounds, i, token.Text, token.Start, token.End)
		}
		if token.Start < prevEnd {
			return fmt.Errorf("%w: %w (token %d starts at %d before previous end %d)",
				ErrInvalidDocument, ErrTokensUnordered, i, token.Start, prevEnd)
		}
		prevEnd = token.End
	}

	return nil
}
