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

import "errors"

// Domain validation errors
var (
	// ErrInvalidConcept indicates a Concept failed validation.
	ErrInvalidConcept = errors.New("invalid concept")

	// ErrEmptyCUI indicates a record is missing its concept identifier.
	ErrEmptyCUI = errors.New("concept identifier cannot be empty")

	// ErrEmptyNameSet indicates a concept has zero names.
	ErrEmptyNameSet = errors.New("concept must have at least one name")

	// ErrPreferredNameUnknown indicates a concept's preferred name is not
	// among its names.
	ErrPreferredNameUnknown = errors.New("preferred name is not in the name set")

	// ErrInvalidPattern indicates a CombinedPattern failed validation.
	ErrInvalidPattern = errors.New("invalid combined pattern")

	// ErrTooFewComponents indicates a pattern with fewer than two components.
	ErrTooFewComponents = errors.New("pattern requires at least two components")

	// ErrEmptyComponent indicates a pattern component with no text.
	ErrEmptyComponent = errors.New("pattern component cannot be empty")

	// ErrNegativeMaxGap indicates a pattern with a negative gap bound.
	ErrNegativeMaxGap = errors.New("max gap cannot be negative")

	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrTokenOutOfBounds indicates token offsets outside the document text.
	ErrTokenOutOfBounds = errors.New("token offsets outside document bounds")

	// ErrTokensUnordered indicates tokens whose offsets are not
	// monotonically increasing.
	ErrTokensUnordered = errors.New("token offsets must be ordered")
)
