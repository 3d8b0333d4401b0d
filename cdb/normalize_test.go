package cdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "Blood Sugar", "blood sugar"},
		{"collapse whitespace", "blood   \t sugar", "blood sugar"},
		{"trim", "  blood sugar  ", "blood sugar"},
		{"punctuation to space", "blood, sugar!", "blood sugar"},
		{"keeps joiners", "jean-luc o'brien mg/dl", "jean-luc o'brien mg/dl"},
		{"curly apostrophe", "o’brien", "o'brien"},
		{"en dash", "insulin–dependent", "insulin-dependent"},
		{"empty", "", ""},
		{"only punctuation", "?!,", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Blood  Sugar", "aerosol intranasally", "MG/DL, twice!"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once))
	}
}

func TestNormalizeTokens(t *testing.T) {
	got := NormalizeTokens([]string{"Blood", "SUGAR,", "?"})
	assert.Equal(t, []string{"blood", "sugar", ""}, got)
}
