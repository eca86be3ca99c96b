package ports

import (
	"context"
	"mime/multipart"
	"os"

	"github.com/google/uuid"

	"file-share-api/internal/domain/user"
	"file-share-api/internal/domain/user_file"
)

// Download is an opened file behind a valid link. The caller closes Content.
type Download struct {
	File    *user_file.UserFile
	Content *os.File
}

type UserFileService interface {
	FindUserFiles(ctx context.Context, userUUID user.UUID) (user_file.UserFiles, error)
	CreateUserFile(ctx context.Context, userUUID user.UUID, in *multipart.FileHeader, description string) (*user_file.UserFile, error)
	UpdateDescription(ctx context.Context, userUUID user.UUID, fileUUID uuid.UUID, description string) (*user_file.UserFile, error)
	CreateLink(ctx context.Context, userUUID user.UUID, fileUUID uuid.UUID) (*user_file.UserFile, error)
	DeleteUserFile(ctx context.Context, userUUID user.UUID, fileUUID uuid.UUID) error
	OpenDownload(ctx context.Context, token string) (*Download, error)
}
