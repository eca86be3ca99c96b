package services

import (
	"context"
	"path"
	"time"

	"go.uber.org/zap"

	"file-share-api/internal/application/ports"
	domain "file-share-api/internal/domain/user_file"
	"file-share-api/internal/infrastructure/storage"
)

// Reconciler removes uploads that never became ready, together with any bytes
// written for them.
type Reconciler struct {
	repo         domain.Repository
	storage      ports.ByteStorage
	interval     time.Duration
	pendingAfter time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

func NewReconciler(
	repo domain.Repository,
	storage ports.ByteStorage,
	interval, pendingAfter time.Duration,
	logger *zap.Logger,
) *Reconciler {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Reconciler{
		repo:         repo,
		storage:      storage,
		interval:     interval,
		pendingAfter: pendingAfter,
		logger:       logger,
		now:          time.Now,
	}
}

func (r *Reconciler) Run(ctx context.Context) {
	r.logger.Info("starting reconciler", zap.Duration("interval", r.interval))

	defer func() {
		r.logger.Info("reconciler gracefully stopped")
	}()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := r.Sweep(ctx); err != nil {
				r.logger.Error("reconcile sweep error", zap.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}
}

// Sweep deletes pending records older than pendingAfter and returns how many went.
func (r *Reconciler) Sweep(ctx context.Context) (int, error) {
	stale, err := r.repo.DeleteStalePending(ctx, r.now().UTC().Add(-r.pendingAfter))
	if err != nil {
		return 0, err
	}

	for _, f := range stale {
		rel := f.StoragePath
		if rel == "" {
			rel = storage.OwnedPath(uint64(f.UserID), uint64(f.ID), f.FileName)
		}
		if err = r.storage.Remove(rel); err != nil {
			r.logger.Warn("failed to remove stale upload", zap.String("path", rel), zap.Error(err))
			continue
		}
		if _, err = r.storage.RemoveDirIfEmpty(path.Dir(rel)); err != nil {
			r.logger.Warn("failed to remove stale upload dir", zap.String("path", rel), zap.Error(err))
		}
	}

	if len(stale) > 0 {
		r.logger.Info("stale uploads removed", zap.Int("count", len(stale)))
	}

	return len(stale), nil
}
