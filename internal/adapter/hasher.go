package adapter

import (
	"crypto/md5" //nolint:gosec // Used as a content fingerprint, not for security.
	"crypto/sha1" //nolint:gosec // Used as a content fingerprint, not for security.
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"sort"
	"strings"

	m "sieve.dev/pkg/sieve/internal/model"
)

// DefaultHashAlgorithm is the digest used when none is configured.
const DefaultHashAlgorithm = "md5"

var hashConstructors = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha256": sha256.New,
}

// Hasher computes a content digest incrementally over a byte stream.
type Hasher interface {
	Algorithm() string
	Sum(r io.Reader) (m.Signature, error)
}

type streamHasher struct {
	name    string
	newHash func() hash.Hash
}

// NewHasher returns a Hasher for the named algorithm.
func NewHasher(algorithm string) (Hasher, error) {
	name := strings.ToLower(strings.TrimSpace(algorithm))
	if name == "" {
		name = DefaultHashAlgorithm
	}

	ctor, ok := hashConstructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown hash algorithm %q (supported: %s)", algorithm, strings.Join(HashAlgorithms(), ", "))
	}

	return &streamHasher{name: name, newHash: ctor}, nil
}

// HashAlgorithms lists the supported algorithm names.
func HashAlgorithms() []string {
	names := make([]string, 0, len(hashConstructors))
	for name := range hashConstructors {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (h *streamHasher) Algorithm() string {
	return h.name
}

// Sum reads r to EOF and returns the lower-case hex digest.
func (h *streamHasher) Sum(r io.Reader) (m.Signature, error) {
	digest := h.newHash()
	if _, err := io.Copy(digest, r); err != nil {
		return "", err
	}

	return m.Signature(hex.EncodeToString(digest.Sum(nil))), nil
}
