package badger

import "testing"

// NewMemoryRepository creates an in-memory lexicon repository for tests.
// The repository is closed automatically when the test ends.
func NewMemoryRepository(t *testing.T) *LexiconRepository {
	t.Helper()

	backend, err := OpenBackend("", true)
	if err != nil {
		t.Fatalf("failed to open in-memory backend: %v", err)
	}
	t.Cleanup(func() {
		if err := backend.Close(); err != nil {
			t.Errorf("failed to close backend: %v", err)
		}
	})

	return NewLexiconRepository(backend)
}
