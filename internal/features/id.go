package features

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ID is the 128-bit content key of an indexed image. It is derived from the
// source path, not from the pixels.
type ID [16]byte

// CanonicalPath normalises a source path for hashing and lookups: backslashes
// become slashes and the string is put in Unicode NFC form, so the same file
// gets the same key whatever platform listed it.
func CanonicalPath(path string) string {
	return norm.NFC.String(strings.ReplaceAll(path, "\\", "/"))
}

// ComputeID returns the key of path: the first 16 bytes of the SHA-256 of its
// canonical form.
func ComputeID(path string) ID {
	sum := sha256.Sum256([]byte(CanonicalPath(path)))
	var id ID
	copy(id[:], sum[:len(id)])
	return id
}

// String renders id as 32 lowercase hex digits.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// IsZero reports whether id is the zero key.
func (id ID) IsZero() bool {
	return id == ID{}
}

// ParseID parses the output of ID.String. Upper-case digits are accepted.
func ParseID(s string) (ID, error) {
	var id ID
	if len(s) != 2*len(id) {
		return id, fmt.Errorf("invalid id %q: want %d hex digits", s, 2*len(id))
	}
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return ID{}, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return id, nil
}
