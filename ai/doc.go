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

// Package ai provides abstractions for the embedding services used by the
// semantic fallback.
//
// The matching engine depends only on the Embedder and Provider interfaces,
// never on a concrete model implementation. Three implementation sub-packages
// ship with the module:
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/hash: dependency-free local embedder (hashed n-gram features)
//   - ai/mock: test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewProvider, openai.NewEmbedder) return
// interface types to enforce abstraction. Test utility constructors
// (mock.NewMockEmbedder) return concrete types to enable behavior injection
// and call-count assertions.
package ai
