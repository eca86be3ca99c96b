package user_file

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"file-share-api/internal/domain/user"
	"file-share-api/internal/domain/user_file"
	"file-share-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) user_file.Repository {
	return &Repository{db: db}
}

func scanUserFile(row pgx.Row) (*UserFile, error) {
	uf := new(UserFile)
	err := row.Scan(
		&uf.ID,
		&uf.UUID,
		&uf.UserID,

		&uf.FileName,
		&uf.Description,
		&uf.MimeType,
		&uf.SizeBytes,
		&uf.StoragePath,
		&uf.Status,

		&uf.UploadedAt,
		&uf.DownloadCount,

		&uf.AccessToken,
		&uf.LinkExpiresAt,
	)
	return uf, err
}

func (r *Repository) fetchOne(ctx context.Context, query string, args ...any) (*user_file.UserFile, error) {
	uf, err := scanUserFile(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(uf), nil
}

func (r *Repository) fetchMany(ctx context.Context, query string, args ...any) (user_file.UserFiles, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ufs UserFiles
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

	return fromDBModels(ufs), nil
}

func (r *Repository) CreateUserFile(ctx context.Context, userID user.ID, req *user_file.UserFile) (*user_file.UserFile, error) {
	if req.UUID == uuid.Nil {
		req.UUID = uuid.New()
	}

	return r.fetchOne(
		ctx,
		InsertUserFile,
		req.UUID.String(), uint64(userID), req.FileName, req.Description, req.MimeType, req.UploadedAt.UTC(),
	)
}

func (r *Repository) MarkReady(
	ctx context.Context,
	id user_file.ID,
	storagePath string,
	sizeBytes uint64,
	mimeType string,
) (*user_file.UserFile, error) {
	return r.fetchOne(ctx, MarkUserFileReady, storagePath, sizeBytes, mimeType, uint64(id))
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
	return r.fetchOne(ctx, UpdateDescription, description, uint64(id))
}

func (r *Repository) SetLink(ctx context.Context, id user_file.ID, token string, expiresAt time.Time) (*user_file.UserFile, error) {
	return r.fetchOne(ctx, UpdateLink, token, expiresAt.UTC(), uint64(id))
}

func (r *Repository) IncrementDownloads(ctx context.Context, id user_file.ID) (uint64, error) {
	var n uint64
	if err := r.db.QueryRow(ctx, IncrementDownloadCount, uint64(id)).Scan(&n); err != nil {
		return 0, err
	}

	return n, nil
}

func (r *Repository) DeleteUserFile(ctx context.Context, id user_file.ID) error {
	_, err := r.db.Exec(ctx, DeleteUserFileByID, uint64(id))
	return err
}

func (r *Repository) DeleteStalePending(ctx context.Context, before time.Time) (user_file.UserFiles, error) {
	return r.fetchMany(ctx, DeleteStalePending, before.UTC())
}

func (r *Repository) FetchUsageStats(ctx context.Context, now time.Time) (user_file.UsageStats, error) {
	rows, err := r.db.Query(ctx, SelectUsageStats, now.UTC())
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
