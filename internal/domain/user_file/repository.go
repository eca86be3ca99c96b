package user_file

import (
	"context"
	"time"

	"github.com/google/uuid"

	"file-share-api/internal/domain/user"
)

// Repository lookups return (nil, nil) when nothing matches.
type Repository interface {
	// CreateUserFile inserts a pending record; the returned ID is what the
	// storage path is derived from.
	CreateUserFile(ctx context.Context, userID user.ID, req *UserFile) (*UserFile, error)
	MarkReady(ctx context.Context, id ID, storagePath string, sizeBytes uint64, mimeType string) (*UserFile, error)

	FetchUserFile(ctx context.Context, fileUUID uuid.UUID) (*UserFile, error)
	FetchUserFiles(ctx context.Context, userID user.ID) (UserFiles, error)
	FetchByToken(ctx context.Context, token string) (*UserFile, error)

	UpdateDescription(ctx context.Context, id ID, description string) (*UserFile, error)
	SetLink(ctx context.Context, id ID, token string, expiresAt time.Time) (*UserFile, error)
	IncrementDownloads(ctx context.Context, id ID) (uint64, error)

	DeleteUserFile(ctx context.Context, id ID) error
	// DeleteStalePending removes pending records uploaded before the cutoff and
	// returns them so their bytes can be cleaned up.
	DeleteStalePending(ctx context.Context, before time.Time) (UserFiles, error)

	FetchUsageStats(ctx context.Context, now time.Time) (UsageStats, error)
}
