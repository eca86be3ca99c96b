package drop

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

const DateLayout = "2006-01-02 15:04:05"

var ErrDuplicate = errors.New("fingerprint already registered")

// Entry is one anonymously uploaded, content-addressed file.
type Entry struct {
	Key          string    `json:"uuid"`
	OriginalName string    `json:"original_name"`
	UploadedAt   Timestamp `json:"upload_date"`
	StoragePath  string    `json:"path"`
	Extension    string    `json:"extension"`
	Fingerprint  string    `json:"md5"`
}

type Entries []Entry

// Timestamp marshals as "YYYY-MM-DD HH:MM:SS".
type Timestamp struct{ time.Time }

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(DateLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("upload_date: %w", err)
	}
	parsed, err := time.Parse(DateLayout, s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}
