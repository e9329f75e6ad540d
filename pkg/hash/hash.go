package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// KeyNamespace prefixes every cache key written by the service.
const KeyNamespace = "youtrend"

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// Prefix returns the first n characters of SHA256(input), or the full hash
// when n exceeds its length. Used to correlate client IPs in logs without
// storing them.
func Prefix(input string, n int) string {
	full := SHA256Hex(input)
	if n > len(full) {
		return full
	}
	return full[:n]
}

// CacheKey derives a cache key from the JSON encoding of v:
// youtrend:<prefix>:<generation>:<sha256>. generation identifies whatever
// produced the cached value, so values from a replaced producer are never
// read back. Map keys are encoded sorted, so equal requests share a key
// regardless of construction order.
func CacheKey(prefix, generation string, v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode cache key: %w", err)
	}
	sum := sha256.Sum256(b)
	return KeyNamespace + ":" + prefix + ":" + generation + ":" + hex.EncodeToString(sum[:]), nil
}
