package lexicon

import (
	"strings"
	"testing"

	"github.com/poiesic/lexlink/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const conceptCSV = `cui,name,preferred,type,frequency
C001,blood sugar,true,finding,10
C001,glycemia,false,finding,3
C002,insulin pump,true,device;equipment,
C003,aerosol,,,7
`

func TestReadConcepts(t *testing.T) {
	records, err := ReadConcepts(strings.NewReader(conceptCSV))
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, core.CUI("C001"), records[0].CUI)
	assert.Equal(t, "blood sugar", records[0].Name)
	assert.True(t, records[0].Preferred)
	assert.Equal(t, []string{"finding"}, records[0].Types)
	assert.Equal(t, uint64(10), records[0].Frequency)

	assert.False(t, records[1].Preferred)

	assert.Equal(t, []string{"device", "equipment"}, records[2].Types)
	assert.Equal(t, uint64(0), records[2].Frequency)

	assert.False(t, records[3].Preferred)
	assert.Nil(t, records[3].Types)
}

func TestReadConceptsHeaderOrderIndependent(t *testing.T) {
	csv := "name,cui\nblood sugar,C001\n"
	records, err := ReadConcepts(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, core.CUI("C001"), records[0].CUI)
}

func TestReadConceptsErrors(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := ReadConcepts(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrMissingHeader)
	})

	t.Run("missing cui column", func(t *testing.T) {
		_, err := ReadConcepts(strings.NewReader("name,frequency\nx,1\n"))
		assert.ErrorIs(t, err, ErrMissingColumn)
	})

	t.Run("empty cui value", func(t *testing.T) {
		_, err := ReadConcepts(strings.NewReader("cui,name\n,x\n"))
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("bad preferred flag", func(t *testing.T) {
		_, err := ReadConcepts(strings.NewReader("cui,name,preferred\nC001,x,maybe\n"))
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("bad frequency", func(t *testing.T) {
		_, err := ReadConcepts(strings.NewReader("cui,name,frequency\nC001,x,-2\n"))
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})
}
