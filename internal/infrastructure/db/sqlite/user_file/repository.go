package user_file

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"file-share-api/internal/domain/user"
	"file-share-api/internal/domain/user_file"
	"file-share-api/internal/infrastructure/db/sqlite"
)

type Repository struct {
	db sqlite.DB
}

func NewRepository(db sqlite.DB) user_file.Repository {
	return &Repository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUserFile(row scanner) (*user_file.UserFile, error) {
	var (
		uf          user_file.UserFile
		id, userID  uint64
		storagePath sql.NullString
		token       sql.NullString
		expiresAt   sql.NullTime
	)
	if err := row.Scan(
		&id,
		&uf.UUID,
		&userID,

		&uf.FileName,
		&uf.Description,
		&uf.MimeType,
		&uf.SizeBytes,
		&storagePath,
		&uf.Status,

		&uf.UploadedAt,
		&uf.DownloadCount,

		&token,
		&expiresAt,
	); err != nil {
		return nil, err
	}

	uf.ID = user_file.ID(id)
	uf.UserID = user.ID(userID)
	uf.StoragePath = storagePath.String
	uf.UploadedAt = uf.UploadedAt.UTC()
	if token.Valid {
		uf.AccessToken = &token.String
	}
	if expiresAt.Valid {
		exp := expiresAt.Time.UTC()
		uf.LinkExpiresAt = &exp
	}

	return &uf, nil
}

func (r *Repository) fetchOne(ctx context.Context, query string, args ...any) (*user_file.UserFile, error) {
	uf, err := scanUserFile(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return uf, nil
}

func (r *Repository) fetchMany(ctx context.Context, query string, args ...any) (user_file.UserFiles, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ufs user_file.UserFiles
	for rows.Next() {
		uf, err := scanUserFile(rows)
		if err != nil {
			return nil, err
		}
		ufs = append(ufs, uf)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return ufs, nil
}

// updateByID runs an UPDATE whose last argument is the row id and re-reads the row.
func (r *Repository) updateByID(ctx context.Context, query string, id user_file.ID, args ...any) (*user_file.UserFile, error) {
	res, err := r.db.ExecContext(ctx, query, append(args, uint64(id))...)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return nil, err
	}

	return r.fetchOne(ctx, SelectUserFileByID, uint64(id))
}

func (r *Repository) CreateUserFile(ctx context.Context, userID user.ID, req *user_file.UserFile) (*user_file.UserFile, error) {
	if req.UUID == uuid.Nil {
		req.UUID = uuid.New()
	}

	res, err := r.db.ExecContext(
		ctx,
		InsertUserFile,
		req.UUID.String(), uint64(userID), req.FileName, req.Description, req.MimeType, req.UploadedAt.UTC(),
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.fetchOne(ctx, SelectUserFileByID, id)
}

func (r *Repository) MarkReady(
	ctx context.Context,
	id user_file.ID,
	storagePath string,
	sizeBytes uint64,
	mimeType string,
) (*user_file.UserFile, error) {
	return r.updateByID(ctx, MarkUserFileReady, id, storagePath, int64(sizeBytes), mimeType)
}

func (r *Repository) FetchUserFile(ctx context.Context, fileUUID uuid.UUID) (*user_file.UserFile, error) {
	return r.fetchOne(ctx, SelectUserFileByUUID, fileUUID.String())
}

func (r *Repository) FetchUserFiles(ctx context.Context, userID user.ID) (user_file.UserFiles, error) {
	return r.fetchMany(ctx, SelectUserFiles, uint64(userID))
}

func (r *Repository) FetchByToken(ctx context.Context, token string) (*user_file.UserFile, error) {
	return r.fetchOne(ctx, SelectUserFileByToken, token)
}

func (r *Repository) UpdateDescription(ctx context.Context, id user_file.ID, description string) (*user_file.UserFile, error) {
	return r.updateByID(ctx, UpdateDescription, id, description)
}

func (r *Repository) SetLink(ctx context.Context, id user_file.ID, token string, expiresAt time.Time) (*user_file.UserFile, error) {
	return r.updateByID(ctx, UpdateLink, id, token, expiresAt.UTC())
}

func (r *Repository) IncrementDownloads(ctx context.Context, id user_file.ID) (uint64, error) {
	var n uint64
	if err := r.db.QueryRowContext(ctx, IncrementDownloadCount, uint64(id)).Scan(&n); err != nil {
		return 0, err
	}

	return n, nil
}

func (r *Repository) DeleteUserFile(ctx context.Context, id user_file.ID) error {
	_, err := r.db.ExecContext(ctx, DeleteUserFileByID, uint64(id))
	return err
}

func (r *Repository) DeleteStalePending(ctx context.Context, before time.Time) (user_file.UserFiles, error) {
	stale, err := r.fetchMany(ctx, SelectStalePending, before.UTC())
	if err != nil {
		return nil, err
	}
	for _, uf := range stale {
		if _, err = r.db.ExecContext(ctx, DeleteUserFileByID, uint64(uf.ID)); err != nil {
			return nil, err
		}
	}

	return stale, nil
}

func (r *Repository) FetchUsageStats(ctx context.Context, now time.Time) (user_file.UsageStats, error) {
	rows, err := r.db.QueryContext(ctx, SelectUsageStats, now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats user_file.UsageStats
	for rows.Next() {
		var s user_file.UsageStat
		if err = rows.Scan(
			&s.Username,
			&s.TotalFiles,
			&s.LinksCreated,
			&s.ActiveLinks,
			&s.TotalDownloads,
		); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
