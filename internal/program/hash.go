package program

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// ContentHash fingerprints program text so a sync can tell whether it has
// already consumed it. The digest is the md5 hex of the trimmed text, which
// keeps hashes stored by earlier deployments valid.
func ContentHash(text string) string {
	sum := md5.Sum([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])
}
