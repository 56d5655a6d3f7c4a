package pricing

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"gc.dev/game-prices/pkg/pricing/sources"
)

// Fingerprint derives the cache key for a query. Fields are length-prefixed
// before hashing so distinct field splits can never collide, and any change
// to any field (including steam app id presence) yields a new key.
func Fingerprint(q sources.Query) string {
	h := sha256.New()
	for _, field := range []string{q.Title, q.PlatformName, q.PlatformSlug, q.SteamAppID} {
		var lenBuf [8]byte
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(field)))
		h.Write(lenBuf[:])
		h.Write([]byte(field))
	}
	return hex.EncodeToString(h.Sum(nil))
}
