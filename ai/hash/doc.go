// Package hash provides a local, dependency-free ai.Embedder built on hashed
// lexical features. It exists so the engine always has a second embedding
// backend to evolve to when a model-backed one degrades or is unreachable.
package hash
