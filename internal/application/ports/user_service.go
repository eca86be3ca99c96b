package ports

import (
	"context"

	"file-share-api/internal/domain/user"
)

type UserService interface {
	FindUserByID(ctx context.Context, uuid user.UUID) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	Register(ctx context.Context, u user.User, password string) (*user.User, error)
	UpdateDisplayName(ctx context.Context, uuid user.UUID, displayName string) (*user.User, error)
	EnsureAdmin(ctx context.Context, username, displayName, password string) error
}
