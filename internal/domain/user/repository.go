package user

import (
	"context"
)

// Repository lookups return (nil, nil) when nothing matches.
type Repository interface {
	FetchUserByID(ctx context.Context, uuid UUID) (*User, error)
	FetchUserByUsername(ctx context.Context, username string) (*User, error)
	CreateUser(ctx context.Context, req User) (*User, error)
	UpdateDisplayName(ctx context.Context, uuid UUID, displayName string) (*User, error)
	FetchInternalID(ctx context.Context, uuid UUID) (ID, error)
}
