package user_file

import (
	"github.com/google/uuid"
)

// DisplayLayout is how upload and expiry instants are rendered to clients.
const DisplayLayout = "2006-01-02 15:04"

type (
	UserFile struct {
		UUID          uuid.UUID `json:"uuid"`
		FileName      string    `json:"file_name"`
		Description   string    `json:"description"`
		MimeType      string    `json:"mime_type"`
		SizeBytes     uint64    `json:"size_bytes"`
		Size          string    `json:"size"`
		UploadedAt    string    `json:"uploaded_at"`
		DownloadCount uint64    `json:"download_count"`
		Link          *Link     `json:"link,omitempty"`
	}
	Link struct {
		Token       string `json:"token"`
		DownloadURL string `json:"download_url"`
		ExpiresAt   string `json:"expires_at"`
		Active      bool   `json:"active"`
	}
	UserFiles    []UserFile
	ResponseData struct {
		Data UserFiles `json:"data"`
	}
	UpdateRequest struct {
		Description string `json:"description"`
	}
)
