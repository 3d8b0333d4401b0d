package token

import (
	"testing"

	"github.com/poiesic/lexlink/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	t.Run("offsets reference the original text", func(t *testing.T) {
		text := "blood sugar, high"
		tokens := Tokenize(text)
		require.Len(t, tokens, 3)
		for _, tok := range tokens {
			assert.Equal(t, tok.Text, text[tok.Start:tok.End])
		}
		assert.Equal(t, "blood", tokens[0].Text)
		assert.Equal(t, "sugar", tokens[1].Text)
		assert.Equal(t, "high", tokens[2].Text)
	})

	t.Run("keeps in-word joiners", func(t *testing.T) {
		tokens := Tokenize("O'Brien took 5.4 mg/dl")
		require.Len(t, tokens, 4)
		assert.Equal(t, "O'Brien", tokens[0].Text)
		assert.Equal(t, "5.4", tokens[2].Text)
		assert.Equal(t, "mg/dl", tokens[3].Text)
	})

	t.Run("empty text", func(t *testing.T) {
		assert.Empty(t, Tokenize(""))
		assert.Empty(t, Tokenize("   ,  !"))
	})
}

func TestDocument(t *testing.T) {
	doc := Document("note-1", "administered aerosol intranasally")
	require.NoError(t, core.ValidateDocument(doc))
	assert.Equal(t, "note-1", doc.Name)
	assert.Len(t, doc.Tokens, 3)
}

func TestTokenizedDocumentsAlwaysValidate(t *testing.T) {
	texts := []string{
		"administered aerosol intranasally twice daily",
		"unicode: naïve café — twice",
		"",
	}
	for _, text := range texts {
		require.NoError(t, core.ValidateDocument(Document("", text)))
	}
}
