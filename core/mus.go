package core

import (
	muss "github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the types persisted in the lexicon store.
// The format is a plain field-by-field encoding: strings and slices are
// length-prefixed with varints, vectors use raw little-endian float32.

var (
	// CUIMUS serializes concept identifiers.
	CUIMUS = cuiMUS{}
	// ConceptMUS serializes Concept values.
	ConceptMUS = conceptMUS{}
	// CombinedPatternMUS serializes CombinedPattern values.
	CombinedPatternMUS = combinedPatternMUS{}
)

var (
	_ muss.Serializer[CUI]             = CUIMUS
	_ muss.Serializer[Concept]         = ConceptMUS
	_ muss.Serializer[CombinedPattern] = CombinedPatternMUS
)

type cuiMUS struct{}

func (cuiMUS) Marshal(v CUI, bs []byte) int {
	return ord.String.Marshal(string(v), bs)
}

func (cuiMUS) Unmarshal(bs []byte) (CUI, int, error) {
	s, n, err := ord.String.Unmarshal(bs)
	return CUI(s), n, err
}

func (cuiMUS) Size(v CUI) int {
	return ord.String.Size(string(v))
}

func (cuiMUS) Skip(bs []byte) (int, error) {
	return ord.String.Skip(bs)
}

type conceptMUS struct{}

func (conceptMUS) Marshal(v Concept, bs []byte) (n int) {
	n = CUIMUS.Marshal(v.CUI, bs)
	n += marshalStrings(v.Names, bs[n:])
	n += ord.String.Marshal(v.PreferredName, bs[n:])
	n += marshalStrings(v.Types, bs[n:])
	n += varint.Uint64.Marshal(v.Frequency, bs[n:])
	n += marshalVector(v.Vector, bs[n:])
	return n
}

func (conceptMUS) Unmarshal(bs []byte) (v Concept, n int, err error) {
	var n1 int
	if v.CUI, n, err = CUIMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.Names, n1, err = unmarshalStrings(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.PreferredName, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Types, n1, err = unmarshalStrings(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Frequency, n1, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Vector, n1, err = unmarshalVector(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (conceptMUS) Size(v Concept) (size int) {
	size = CUIMUS.Size(v.CUI)
	size += sizeStrings(v.Names)
	size += ord.String.Size(v.PreferredName)
	size += sizeStrings(v.Types)
	size += varint.Uint64.Size(v.Frequency)
	size += sizeVector(v.Vector)
	return size
}

func (conceptMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = CUIMUS.Skip(bs); err != nil {
		return
	}
	if n1, err = skipStrings(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = ord.String.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = skipStrings(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = varint.Uint64.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = skipVector(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	return n, nil
}

type combinedPatternMUS struct{}

func (combinedPatternMUS) Marshal(v CombinedPattern, bs []byte) (n int) {
	n = CUIMUS.Marshal(v.CUI, bs)
	n += marshalStrings(v.Components, bs[n:])
	n += varint.Int.Marshal(v.MaxGap, bs[n:])
	return n
}

func (combinedPatternMUS) Unmarshal(bs []byte) (v CombinedPattern, n int, err error) {
	var n1 int
	if v.CUI, n, err = CUIMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.Components, n1, err = unmarshalStrings(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.MaxGap, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (combinedPatternMUS) Size(v CombinedPattern) (size int) {
	size = CUIMUS.Size(v.CUI)
	size += sizeStrings(v.Components)
	size += varint.Int.Size(v.MaxGap)
	return size
}

func (combinedPatternMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = CUIMUS.Skip(bs); err != nil {
		return
	}
	if n1, err = skipStrings(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = varint.Int.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	return n, nil
}

// String slice helpers: varint length prefix followed by each string.

func marshalStrings(v []string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, s := range v {
		n += ord.String.Marshal(s, bs[n:])
	}
	return n
}

func unmarshalStrings(bs []byte) (v []string, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length == 0 {
		return nil, n, nil
	}
	v = make([]string, length)
	var n1 int
	for i := 0; i < length; i++ {
		if v[i], n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return nil, n + n1, err
		}
		n += n1
	}
	return v, n, nil
}

func sizeStrings(v []string) (size int) {
	size = varint.Int.Size(len(v))
	for _, s := range v {
		size += ord.String.Size(s)
	}
	return size
}

func skipStrings(bs []byte) (n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return n, err
	}
	var n1 int
	for i := 0; i < length; i++ {
		if n1, err = ord.String.Skip(bs[n:]); err != nil {
			return n + n1, err
		}
		n += n1
	}
	return n, nil
}

// Vector helpers: varint length prefix followed by raw float32 values.

func marshalVector(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	return n
}

func unmarshalVector(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length == 0 {
		return nil, n, nil
	}
	v = make([]float32, length)
	var n1 int
	for i := 0; i < length; i++ {
		if v[i], n1, err = raw.Float32.Unmarshal(bs[n:]); err != nil {
			return nil, n + n1, err
		}
		n += n1
	}
	return v, n, nil
}

func sizeVector(v []float32) (size int) {
	size = varint.Int.Size(len(v))
	for _, f := range v {
		size += raw.Float32.Size(f)
	}
	return size
}

func skipVector(bs []byte) (n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return n, err
	}
	var n1 int
	for i := 0; i < length; i++ {
		if n1, err = raw.Float32.Skip(bs[n:]); err != nil {
			return n + n1, err
		}
		n += n1
	}
	return n, nil
}
