// Copyright 2025 The Poiesic Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package annotate assembles the extraction pipeline: lexical matching,
// deterministic disambiguation, span-overlap resolution, and the optional
// semantic second pass over residual text. Output for a document is a
// non-overlapping, start-ordered annotation set, produced deterministically
// for identical inputs.
package annotate
