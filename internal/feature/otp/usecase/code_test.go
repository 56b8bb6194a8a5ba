package usecase

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode_ShortReader(t *testing.T) {
	_, err := generateCode(bytes.NewReader(nil))

	assert.Error(t, err)
}

func TestNormalizeCode(t *testing.T) {
	got, err := NormalizeCode(" ab12cd ")
	require.NoError(t, err)
	assert.Equal(t, "AB12CD", got)

	_, err = NormalizeCode("AB12C")
	assert.True(t, errors.Is(err, ErrInvalidCodeFormat))
}

func TestHashCode(t *testing.T) {
	assert.Len(t, HashCode("AB12CD"), 64)
	assert.Equal(t, HashCode("AB12CD"), HashCode("AB12CD"))
	assert.NotEqual(t, HashCode("AB12CD"), HashCode("AB12CE"))
	assert.True(t, hashesEqual(HashCode("X"), HashCode("X")))
	assert.False(t, hashesEqual(HashCode("X"), HashCode("Y")))
}
