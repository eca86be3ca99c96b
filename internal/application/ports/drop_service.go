package ports

import (
	"context"
	"mime/multipart"

	"file-share-api/internal/domain/drop"
)

type DropService interface {
	Upload(ctx context.Context, in *multipart.FileHeader) (*drop.Entry, error)
	List(ctx context.Context) (drop.Entries, error)
}
