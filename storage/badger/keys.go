package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/lexlink/core"
)

// Key prefixes for different record types
const (
	conceptPrefix = "lexcon"
	patternPrefix = "lexpat"
)

// makeConceptKey generates a key for a concept by CUI.
func makeConceptKey(cui core.CUI) []byte {
	return []byte(fmt.Sprintf("%s:%s", conceptPrefix, cui))
}

// makePatternKey generates a key for a pattern by its content-derived ID.
func makePatternKey(id core.ID) []byte {
	prefix := patternPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, []byte(prefix))
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
