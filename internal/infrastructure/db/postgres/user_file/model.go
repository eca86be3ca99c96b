package user_file

import (
	"time"

	"github.com/google/uuid"
)

type (
	UserFile struct {
		ID     uint64
		UUID   uuid.UUID
		UserID uint64

		FileName    string
		Description string
		MimeType    string
		SizeBytes   uint64
		StoragePath *string
		Status      string

		UploadedAt    time.Time
		DownloadCount uint64

		AccessToken   *string
		LinkExpiresAt *time.Time
	}
	UserFiles []*UserFile
)
