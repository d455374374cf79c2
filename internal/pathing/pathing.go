package pathing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"thumbnail-service/internal/errs"
)

// chunkWidth is the number of hex characters per path segment. A sha256
// hex digest (64 chars) split this way yields 8 segments, bounding the
// fan-out of any single directory on filesystem backends.
const chunkWidth = 8

// Hash returns the hex-encoded sha256 digest of an item id.
func Hash(id string) string {
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:])
}

// ShardedPath converts an item id into its sharded directory path,
// e.g. "aaaaaaaa/bbbbbbbb/.../hhhhhhhh". Deterministic and one-way.
func ShardedPath(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("build sharded path: %w", errs.ErrUndefinedItem)
	}
	digest := Hash(id)
	chunks := make([]string, 0, len(digest)/chunkWidth)
	for i := 0; i < len(digest); i += chunkWidth {
		chunks = append(chunks, digest[i:i+chunkWidth])
	}
	return strings.Join(chunks, "/"), nil
}

// Build computes the storage key for one of an item's thumbnail files:
// prefix + sharded digest of the item id + "/" + name. The name is
// normally a size label but may be any literal filename.
func Build(itemID, name, prefix string) (string, error) {
	sharded, err := ShardedPath(itemID)
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", fmt.Errorf("build path for item %s: empty filename", itemID)
	}
	return prefix + sharded + "/" + name, nil
}

// ItemDir returns the directory that holds every size variant of one
// item, relative to the same prefix Build uses.
func ItemDir(itemID, prefix string) (string, error) {
	sharded, err := ShardedPath(itemID)
	if err != nil {
		return "", err
	}
	return prefix + sharded, nil
}

// ValidatePrefix enforces the shape of the configured path prefix: it
// must start and end with a separator. Called once at startup so a
// malformed prefix fails registration rather than the first request.
func ValidatePrefix(prefix string) error {
	if !strings.HasPrefix(prefix, "/") || !strings.HasSuffix(prefix, "/") {
		return fmt.Errorf("path prefix %q is malformed: must start and end with '/'", prefix)
	}
	return nil
}
