package adapter

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "sieve.dev/pkg/sieve/internal/model"
)

func TestNewHasher_KnownDigests(t *testing.T) {
	tests := []struct {
		algorithm string
		want      m.Signature
	}{
		{"md5", "5d41402abc4b2a76b9719d911017c592"},
		{"SHA1", "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d"},
		{"sha256", "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"},
	}

	for _, tt := range tests {
		t.Run(tt.algorithm, func(t *testing.T) {
			hasher, err := NewHasher(tt.algorithm)
			require.NoError(t, err)

			sig, err := hasher.Sum(strings.NewReader("hello"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, sig)
		})
	}
}

func TestNewHasher_DefaultsToMD5(t *testing.T) {
	hasher, err := NewHasher("")
	require.NoError(t, err)
	assert.Equal(t, DefaultHashAlgorithm, hasher.Algorithm())
}

func TestNewHasher_Unknown(t *testing.T) {
	_, err := NewHasher("crc32")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "md5, sha1, sha256")
}

func TestHashAlgorithms_Sorted(t *testing.T) {
	assert.Equal(t, []string{"md5", "sha1", "sha256"}, HashAlgorithms())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk gone")
}

func TestHasher_ReadError(t *testing.T) {
	hasher, err := NewHasher("md5")
	require.NoError(t, err)

	_, err = hasher.Sum(failingReader{})
	require.EqualError(t, err, "disk gone")
}
