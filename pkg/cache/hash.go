package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/chainlens/chainlens/pkg/layout"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// HashPositions hashes a position map independent of iteration order.
// An empty or nil map hashes to "".
func HashPositions(pos layout.Positions) string {
	if len(pos) == 0 {
		return ""
	}
	h := sha256.New()
	for _, id := range slices.Sorted(maps.Keys(pos)) {
		p := pos[id]
		fmt.Fprintf(h, "%s\x00%g\x00%g\n", id, p.X, p.Y)
	}
	return hex.EncodeToString(h.Sum(nil))
}
