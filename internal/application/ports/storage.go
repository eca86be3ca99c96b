package ports

import (
	"io"
	"os"
)

// ByteStorage addresses file bytes by slash-separated paths relative to its root.
type ByteStorage interface {
	Save(rel string, r io.Reader) (int64, error)
	Open(rel string) (*os.File, error)
	Remove(rel string) error
	RemoveDirIfEmpty(relDir string) (bool, error)
}
