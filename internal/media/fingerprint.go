package media

import (
	"crypto/sha1"
	"encoding/hex"
)

// FingerprintLen bounds how many leading bytes of a payload contribute to
// its fingerprint. Hashing only the prefix keeps the per-run directory scan
// cheap; two payloads that share their first 2048 bytes count as the same
// content. Changing this constant changes what counts as a duplicate.
const FingerprintLen = 2048

// Fingerprint returns the hex SHA-1 digest of at most the first
// FingerprintLen bytes of data.
func Fingerprint(data []byte) string {
	if len(data) > FingerprintLen {
		data = data[:FingerprintLen]
	}
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}
