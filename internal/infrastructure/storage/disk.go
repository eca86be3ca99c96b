package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

var ErrInvalidPath = errors.New("storage path escapes root")

// Disk is a hierarchical byte store rooted at a local directory. All paths
// passed to it are slash-separated and relative to the root.
type Disk struct {
	root   string
	logger *zap.Logger
}

func NewDisk(root string, logger *zap.Logger) (*Disk, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create storage root %s: %w", root, err)
	}

	logger.Info("storage ready", zap.String("root", root))

	return &Disk{root: root, logger: logger}, nil
}

func (d *Disk) Root() string { return d.root }

func (d *Disk) abs(rel string) (string, error) {
	p := filepath.FromSlash(rel)
	if !filepath.IsLocal(p) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, rel)
	}
	return filepath.Join(d.root, p), nil
}

// Save writes r to rel through a temp file in the same directory, fsyncs it
// and renames it into place. Parent directories are created as needed.
func (d *Disk) Save(rel string, r io.Reader) (int64, error) {
	full, err := d.abs(rel)
	if err != nil {
		return 0, err
	}
	dir := filepath.Dir(full)
	if err = os.MkdirAll(dir, 0o750); err != nil {
		return 0, fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, fmt.Errorf("write content: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, fmt.Errorf("fsync: %w", err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmpName, full); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("rename into place: %w", err)
	}

	return size, nil
}

// Open returns the content at rel; the caller closes it.
func (d *Disk) Open(rel string) (*os.File, error) {
	full, err := d.abs(rel)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

// Remove deletes the file at rel. A missing file is not an error.
func (d *Disk) Remove(rel string) error {
	full, err := d.abs(rel)
	if err != nil {
		return err
	}
	if err = os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// List returns the entry names directly under relDir.
func (d *Disk) List(relDir string) ([]string, error) {
	full, err := d.abs(relDir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(full)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// RemoveDirIfEmpty deletes relDir when it has no entries left and reports
// whether it did. A missing directory counts as removed.
func (d *Disk) RemoveDirIfEmpty(relDir string) (bool, error) {
	names, err := d.List(relDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return true, nil
		}
		return false, err
	}
	if len(names) > 0 {
		return false, nil
	}

	full, _ := d.abs(relDir)
	if err = os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, err
	}

	d.logger.Debug("removed empty directory", zap.String("dir", relDir))

	return true, nil
}
