package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"file-share-api/internal/application/ports"
	"file-share-api/internal/domain/user"
	domain "file-share-api/internal/domain/user_file"
	"file-share-api/internal/infrastructure/mq"
	"file-share-api/internal/infrastructure/storage"
)

type UserFileService struct {
	storage            ports.ByteStorage
	userFileRepository domain.Repository
	userRepository     user.Repository
	links              *LinkIssuer
	mq                 ports.EventPublisher
	logger             *zap.Logger
	mCounter           *prometheus.CounterVec
	now                func() time.Time
}

func NewUserFileService(
	storage ports.ByteStorage,
	userFileRepository domain.Repository,
	userRepository user.Repository,
	links *LinkIssuer,
	mq ports.EventPublisher,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
) *UserFileService {
	return &UserFileService{
		storage:            storage,
		userFileRepository: userFileRepository,
		userRepository:     userRepository,
		links:              links,
		mq:                 mq,
		logger:             logger,
		mCounter:           mCounter,
		now:                time.Now,
	}
}

func (ufs *UserFileService) FindUserFiles(ctx context.Context, userUUID user.UUID) (domain.UserFiles, error) {
	id, err := ufs.userRepository.FetchInternalID(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	return ufs.userFileRepository.FetchUserFiles(ctx, id)
}

// CreateUserFile registers a pending record, writes the bytes under the path
// derived from its id and then marks the record ready.
func (ufs *UserFileService) CreateUserFile(
	ctx context.Context,
	userUUID user.UUID,
	in *multipart.FileHeader,
	description string,
) (*domain.UserFile, error) {
	if err := checkUpload(in); err != nil {
		return nil, err
	}

	id, err := ufs.userRepository.FetchInternalID(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	f, err := in.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open upload: %w", ErrStorageIO, err)
	}
	defer f.Close()

	mimeType, err := detectMime(f)
	if err != nil {
		return nil, err
	}

	name := SanitizeFileName(in.Filename)
	pending, err := ufs.userFileRepository.CreateUserFile(ctx, id, &domain.UserFile{
		FileName:    name,
		Description: strings.TrimSpace(description),
		MimeType:    mimeType,
		UploadedAt:  ufs.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	rel := storage.OwnedPath(uint64(id), uint64(pending.ID), name)
	n, err := ufs.storage.Save(rel, f)
	if err != nil {
		ufs.dropPending(ctx, pending, "")
		return nil, fmt.Errorf("%w: %w", ErrStorageIO, err)
	}

	out, err := ufs.userFileRepository.MarkReady(ctx, pending.ID, rel, uint64(n), mimeType)
	if err == nil && out == nil {
		err = fmt.Errorf("%w: pending record %d vanished", ErrStorageIO, pending.ID)
	}
	if err != nil {
		ufs.dropPending(ctx, pending, rel)
		return nil, err
	}

	ufs.mq.Publish(mq.NewEvent(mq.KeyFileUploaded, userUUID.String(), fileEvent(out)))
	ufs.mCounter.WithLabelValues("user_files_created_total").Inc()

	return out, nil
}

// dropPending undoes a failed upload; rel is empty when no bytes were written.
func (ufs *UserFileService) dropPending(ctx context.Context, pending *domain.UserFile, rel string) {
	if rel != "" {
		if err := ufs.storage.Remove(rel); err != nil {
			ufs.logger.Warn("failed to remove bytes of failed upload", zap.String("path", rel), zap.Error(err))
		}
		if _, err := ufs.storage.RemoveDirIfEmpty(path.Dir(rel)); err != nil {
			ufs.logger.Warn("failed to remove upload dir", zap.String("path", rel), zap.Error(err))
		}
	}
	if err := ufs.userFileRepository.DeleteUserFile(ctx, pending.ID); err != nil {
		ufs.logger.Error("failed to delete pending record", zap.Uint64("file_id", uint64(pending.ID)), zap.Error(err))
	}
}

func (ufs *UserFileService) UpdateDescription(
	ctx context.Context,
	userUUID user.UUID,
	fileUUID uuid.UUID,
	description string,
) (*domain.UserFile, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	f, err := ufs.ownedFile(ctx, userUUID, fileUUID)
	if err != nil {
		return nil, err
	}

	out, err := ufs.userFileRepository.UpdateDescription(ctx, f.ID, description)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("%w: file %s", ErrNotFound, fileUUID)
	}

	return out, nil
}

func (ufs *UserFileService) CreateLink(ctx context.Context, userUUID user.UUID, fileUUID uuid.UUID) (*domain.UserFile, error) {
	f, err := ufs.ownedFile(ctx, userUUID, fileUUID)
	if err != nil {
		return nil, err
	}

	out, err := ufs.links.Issue(ctx, f)
	if err != nil {
		return nil, err
	}

	ufs.mq.Publish(mq.NewEvent(mq.KeyFileLinkIssued, userUUID.String(), fileEvent(out)))
	ufs.mCounter.WithLabelValues("links_issued_total").Inc()

	return out, nil
}

// DeleteUserFile removes the bytes and then the record. A failed byte removal
// does not block the delete; the path is handed to the orphan queue instead.
func (ufs *UserFileService) DeleteUserFile(ctx context.Context, userUUID user.UUID, fileUUID uuid.UUID) error {
	f, err := ufs.ownedFile(ctx, userUUID, fileUUID)
	if err != nil {
		return err
	}

	if err = ufs.storage.Remove(f.StoragePath); err != nil {
		ufs.logger.Warn("failed to remove file bytes",
			zap.String("path", f.StoragePath),
			zap.Stringer("file_uuid", f.UUID),
			zap.Error(err),
		)
		ufs.mq.Publish(mq.NewEvent(mq.KeyFileOrphaned, userUUID.String(), mq.OrphanPayload{Path: f.StoragePath}))
		ufs.mCounter.WithLabelValues("files_orphaned_total").Inc()
	} else if _, err = ufs.storage.RemoveDirIfEmpty(path.Dir(f.StoragePath)); err != nil {
		ufs.logger.Warn("failed to remove file dir", zap.String("path", f.StoragePath), zap.Error(err))
	}

	if err = ufs.userFileRepository.DeleteUserFile(ctx, f.ID); err != nil {
		return err
	}

	ufs.mq.Publish(mq.NewEvent(mq.KeyFileDeleted, userUUID.String(), fileEvent(f)))
	ufs.mCounter.WithLabelValues("user_files_deleted_total").Inc()

	return nil
}

// OpenDownload resolves token, opens the bytes and counts the download.
// Unknown or expired tokens leave the counter untouched.
func (ufs *UserFileService) OpenDownload(ctx context.Context, token string) (*ports.Download, error) {
	f, err := ufs.links.Validate(ctx, token, ufs.now())
	if err != nil {
		return nil, err
	}

	content, err := ufs.storage.Open(f.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageIO, err)
	}

	n, err := ufs.userFileRepository.IncrementDownloads(ctx, f.ID)
	if err != nil {
		_ = content.Close()
		return nil, err
	}
	f.DownloadCount = n

	ufs.mq.Publish(mq.NewEvent(mq.KeyFileDownloaded, "", fileEvent(f)))
	ufs.mCounter.WithLabelValues("downloads_total").Inc()

	return &ports.Download{File: f, Content: content}, nil
}

func (ufs *UserFileService) ownedFile(ctx context.Context, userUUID user.UUID, fileUUID uuid.UUID) (*domain.UserFile, error) {
	id, err := ufs.userRepository.FetchInternalID(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	f, err := ufs.userFileRepository.FetchUserFile(ctx, fileUUID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("%w: file %s", ErrNotFound, fileUUID)
	}
	if !f.OwnedBy(id) {
		return nil, ErrForbidden
	}

	return f, nil
}

func checkUpload(in *multipart.FileHeader) error {
	switch {
	case in == nil:
		return ErrFileRequired
	case strings.TrimSpace(in.Filename) == "":
		return ErrNoFileSelected
	case in.Size <= 0:
		return ErrEmptyFile
	}
	return nil
}

// detectMime sniffs the leading bytes of r and rewinds it.
func detectMime(r io.ReadSeeker) (string, error) {
	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return "", fmt.Errorf("%w: sniff content: %w", ErrStorageIO, err)
	}
	if _, err = r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("%w: rewind upload: %w", ErrStorageIO, err)
	}

	return mt.String(), nil
}

type fileEventPayload struct {
	FileUUID      string `json:"file_uuid"`
	FileName      string `json:"file_name"`
	SizeBytes     uint64 `json:"size_bytes"`
	DownloadCount uint64 `json:"download_count"`
}

func fileEvent(f *domain.UserFile) fileEventPayload {
	return fileEventPayload{
		FileUUID:      f.UUID.String(),
		FileName:      f.FileName,
		SizeBytes:     f.SizeBytes,
		DownloadCount: f.DownloadCount,
	}
}

var _ ports.UserFileService = (*UserFileService)(nil)
