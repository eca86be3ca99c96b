package storage

import (
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// NewObjectKey returns a random, unguessable object name: 32 hex characters of
// a v4 UUID followed by the lower-cased extension.
func NewObjectKey(ext string) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ToLower(ext)
}

// ShardedPath spreads keys over a two-level fan-out: "ab/cd/abcd...ext".
func ShardedPath(key string) string {
	if len(key) < 4 {
		return key
	}
	return path.Join(key[:2], key[2:4], key)
}

// OwnedPath isolates every owned file in its own directory: "<user>/<file>/<name>".
func OwnedPath(userID, fileID uint64, fileName string) string {
	return path.Join(
		strconv.FormatUint(userID, 10),
		strconv.FormatUint(fileID, 10),
		fileName,
	)
}
