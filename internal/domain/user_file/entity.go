package user_file

import (
	"time"

	"github.com/google/uuid"

	"file-share-api/internal/domain/user"
)

const (
	StatusPending = "pending"
	StatusReady   = "ready"
)

type (
	ID       uint64
	UserFile struct {
		ID     ID
		UUID   uuid.UUID
		UserID user.ID

		FileName    string
		Description string
		MimeType    string
		SizeBytes   uint64
		StoragePath string
		Status      string

		UploadedAt    time.Time
		DownloadCount uint64

		AccessToken   *string
		LinkExpiresAt *time.Time
	}
	UserFiles []*UserFile

	// UsageStat is the per-user aggregate shown to administrators.
	UsageStat struct {
		Username       string
		TotalFiles     uint64
		LinksCreated   uint64
		ActiveLinks    uint64
		TotalDownloads uint64
	}
	UsageStats []UsageStat
)

func (f *UserFile) OwnedBy(id user.ID) bool { return f.UserID == id }

func (f *UserFile) HasLink() bool { return f.AccessToken != nil && *f.AccessToken != "" }

// LinkActive reports whether the link is still valid at now. A link expires at
// the exact instant of LinkExpiresAt.
func (f *UserFile) LinkActive(now time.Time) bool {
	return f.HasLink() && f.LinkExpiresAt != nil && now.Before(*f.LinkExpiresAt)
}
