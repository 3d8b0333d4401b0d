// Package mock provides test doubles for the ai interfaces.
// The mocks default to deterministic behavior so tests are reproducible
// without external services; custom behavior is injected via function fields.
package mock
