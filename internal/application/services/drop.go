package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"file-share-api/internal/application/ports"
	"file-share-api/internal/domain/drop"
	"file-share-api/internal/infrastructure/mq"
	"file-share-api/internal/infrastructure/storage"
	"file-share-api/pkg/fingerprint"
)

// DropService accepts anonymous uploads, stored once per distinct content.
type DropService struct {
	storage  ports.ByteStorage
	catalog  drop.Repository
	allowed  map[string]struct{}
	mq       ports.EventPublisher
	logger   *zap.Logger
	mCounter *prometheus.CounterVec
	now      func() time.Time
}

func NewDropService(
	storage ports.ByteStorage,
	catalog drop.Repository,
	allowedExtensions []string,
	mq ports.EventPublisher,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
) *DropService {
	allowed := make(map[string]struct{}, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		allowed[strings.ToLower(ext)] = struct{}{}
	}

	return &DropService{
		storage:  storage,
		catalog:  catalog,
		allowed:  allowed,
		mq:       mq,
		logger:   logger,
		mCounter: mCounter,
		now:      time.Now,
	}
}

func (ds *DropService) List(_ context.Context) (drop.Entries, error) {
	return ds.catalog.List()
}

func (ds *DropService) Upload(_ context.Context, in *multipart.FileHeader) (*drop.Entry, error) {
	if err := checkUpload(in); err != nil {
		return nil, err
	}

	originalName := path.Base(strings.ReplaceAll(in.Filename, "\\", "/"))
	ext := strings.ToLower(path.Ext(originalName))
	if _, ok := ds.allowed[ext]; !ok {
		return nil, ErrExtensionNotAllowed
	}

	f, err := in.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open upload: %w", ErrStorageIO, err)
	}
	defer f.Close()

	sum, err := fingerprint.MD5(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageIO, err)
	}

	existing, err := ds.catalog.FindByFingerprint(sum)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		ds.mCounter.WithLabelValues("drop_duplicates_total").Inc()
		return nil, ErrDuplicateContent
	}

	key := storage.NewObjectKey(ext)
	rel := storage.ShardedPath(key)
	if _, err = ds.storage.Save(rel, f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageIO, err)
	}

	entry := drop.Entry{
		Key:          key,
		OriginalName: originalName,
		UploadedAt:   drop.Timestamp{Time: ds.now().UTC().Truncate(time.Second)},
		StoragePath:  rel,
		Extension:    ext,
		Fingerprint:  sum,
	}
	if err = ds.catalog.Add(entry); err != nil {
		if rmErr := ds.storage.Remove(rel); rmErr != nil {
			ds.logger.Warn("failed to remove unregistered drop", zap.String("path", rel), zap.Error(rmErr))
		}
		if errors.Is(err, drop.ErrDuplicate) {
			ds.mCounter.WithLabelValues("drop_duplicates_total").Inc()
			return nil, ErrDuplicateContent
		}
		return nil, err
	}

	ds.mq.Publish(mq.NewEvent(mq.KeyDropUploaded, "", entry))
	ds.mCounter.WithLabelValues("drops_created_total").Inc()

	return &entry, nil
}

var _ ports.DropService = (*DropService)(nil)
