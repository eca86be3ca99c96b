// Package fingerprint computes content digests used to detect duplicate uploads.
package fingerprint

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

const chunkSize = 4096

// MD5 hashes r in fixed-size chunks and rewinds it to the start, so the same
// stream can be persisted afterwards. MD5 is used for content addressing only.
func MD5(r io.ReadSeeker) (string, error) {
	h := md5.New()
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read content: %w", err)
		}
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind content: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
