package secrets

import (
	"bytes"
	"crypto/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomString(t *testing.T) {
	s, err := RandomString(rand.Reader, 64)
	require.NoError(t, err)
	assert.Len(t, s, 64)
	for _, c := range s {
		assert.True(t, strings.ContainsRune(Alphabet, c), "unexpected %q", c)
	}

	other, err := RandomString(rand.Reader, 64)
	require.NoError(t, err)
	assert.NotEqual(t, s, other)
}

func TestRandomString_InvalidLength(t *testing.T) {
	_, err := RandomString(rand.Reader, 0)
	assert.Error(t, err)
}

func TestRandomHex(t *testing.T) {
	src := bytes.NewReader([]byte{0x00, 0x01, 0xab, 0xff})
	s, err := RandomHex(src, 4)
	require.NoError(t, err)
	assert.Equal(t, "0001abff", s)
}

func TestRandomHex_ShortSource(t *testing.T) {
	_, err := RandomHex(bytes.NewReader([]byte{1}), 16)
	assert.Error(t, err)
}
