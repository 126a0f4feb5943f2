package driver

import (
	"crypto/sha256"
	"encoding/binary"

	"scriptls/internal/source"
)

// Digest is a SHA-256 cache key.
type Digest [32]byte

// cacheKey: H(schema || content hash || fingerprint).
func cacheKey(doc *source.Document, fingerprint string) Digest {
	h := sha256.New()
	var schema [2]byte
	binary.BigEndian.PutUint16(schema[:], diskCacheSchemaVersion)
	_, _ = h.Write(schema[:])
	_, _ = h.Write(doc.Hash[:])
	_, _ = h.Write([]byte(fingerprint))
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
