package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"file-share-api/internal/domain/user"
	"file-share-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) user.Repository {
	return &Repository{db: db}
}

func scanUser(row pgx.Row) (*user.User, error) {
	u := new(User)
	if err := row.Scan(
		&u.ID,
		&u.UUID,
		&u.Username,
		&u.PasswordHash,
		&u.DisplayName,
		&u.Role,

		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return fromDBModel(u), nil
}

func (r *Repository) FetchUserByID(ctx context.Context, uuid user.UUID) (*user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, SelectUserByID, uuid.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return u, nil
}

func (r *Repository) FetchUserByUsername(ctx context.Context, username string) (*user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, SelectUserByUsername, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return u, nil
}

func (r *Repository) CreateUser(ctx context.Context, req user.User) (*user.User, error) {
	if req.UUID == uuid.Nil {
		req.UUID = uuid.New()
	}
	if req.Role == "" {
		req.Role = user.RoleUser
	}

	u, err := scanUser(r.db.QueryRow(
		ctx,
		InsertUser,
		req.UUID.String(), req.Username, req.PasswordHash, req.DisplayName, req.Role,
	))
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, user.ErrUsernameTaken
		}
		return nil, err
	}

	return u, nil
}

func (r *Repository) UpdateDisplayName(ctx context.Context, uuid user.UUID, displayName string) (*user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, UpdateDisplayNameByUUID, displayName, uuid.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return u, nil
}

func (r *Repository) FetchInternalID(ctx context.Context, uuid user.UUID) (user.ID, error) {
	var id uint64
	if err := r.db.QueryRow(ctx, SelectIdByUUID, uuid.String()).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: uuid %s", user.ErrNotFound, uuid.String())
		}
		return 0, err
	}

	return user.ID(id), nil
}
