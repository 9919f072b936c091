package crypto

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

const (
	HashSize = sha256.Size
)

// Hash() executes the global hashing algorithm on input bytes
func Hash(msg []byte) []byte {
	h := sha256.Sum256(msg)
	return h[:]
}

// ShortHash() executes the global hashing algorithm on input bytes
// and truncates the output to address length
func ShortHash(msg []byte) []byte {
	h := sha256.Sum256(msg)
	return h[:AddressSize]
}

// HashString() returns the hex byte version of a hash
func HashString(msg []byte) string { return hex.EncodeToString(Hash(msg)) }

// Derive() produces a deterministic, non-custodial address from a domain tag and seed segments.
// blake2b is keyed with the tag so derivations in different domains can never collide,
// which is what makes the result safe to hand out as a capability reference.
func Derive(tag string, seeds ...[]byte) *Address {
	h, _ := blake2b.New256([]byte(tag))
	for _, seed := range seeds {
		h.Write(seed)
	}
	sum := h.Sum(nil)
	return NewAddress(sum[:AddressSize])
}
