package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"file-share-api/internal/domain/user"
	"file-share-api/internal/infrastructure/db/sqlite"
)

type Repository struct {
	db  sqlite.DB
	now func() time.Time
}

func NewRepository(db sqlite.DB) user.Repository {
	return &Repository{db: db, now: time.Now}
}

func (r *Repository) fetchOne(ctx context.Context, query string, args ...any) (*user.User, error) {
	var (
		u  user.User
		id uint64
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&id,
		&u.UUID,
		&u.Username,
		&u.PasswordHash,
		&u.DisplayName,
		&u.Role,

		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.ID = user.ID(id)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()

	return &u, nil
}

func (r *Repository) FetchUserByID(ctx context.Context, uuid user.UUID) (*user.User, error) {
	return r.fetchOne(ctx, SelectUserByUUID, uuid.String())
}

func (r *Repository) FetchUserByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.fetchOne(ctx, SelectUserByUsername, username)
}

func (r *Repository) CreateUser(ctx context.Context, req user.User) (*user.User, error) {
	if req.UUID == uuid.Nil {
		req.UUID = uuid.New()
	}
	if req.Role == "" {
		req.Role = user.RoleUser
	}
	now := r.now().UTC()

	res, err := r.db.ExecContext(
		ctx,
		InsertUser,
		req.UUID.String(), req.Username, req.PasswordHash, req.DisplayName, req.Role, now, now,
	)
	if err != nil {
		if sqlite.IsUniqueViolation(err) {
			return nil, user.ErrUsernameTaken
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.fetchOne(ctx, SelectUserByInternal, id)
}

func (r *Repository) UpdateDisplayName(ctx context.Context, uuid user.UUID, displayName string) (*user.User, error) {
	res, err := r.db.ExecContext(ctx, UpdateDisplayNameByUUID, displayName, r.now().UTC(), uuid.String())
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return nil, err
	}

	return r.fetchOne(ctx, SelectUserByUUID, uuid.String())
}

func (r *Repository) FetchInternalID(ctx context.Context, uuid user.UUID) (user.ID, error) {
	var id uint64
	if err := r.db.QueryRowContext(ctx, SelectIdByUUID, uuid.String()).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: uuid %s", user.ErrNotFound, uuid.String())
		}
		return 0, err
	}

	return user.ID(id), nil
}
