package services

import (
	"context"
	"time"

	"file-share-api/internal/application/ports"
	domain "file-share-api/internal/domain/user_file"
)

type StatsService struct {
	userFileRepository domain.Repository
	now                func() time.Time
}

func NewStatsService(userFileRepository domain.Repository) ports.StatsService {
	return &StatsService{userFileRepository: userFileRepository, now: time.Now}
}

// UsageStats lists every user, including those without files, ordered by username.
func (ss *StatsService) UsageStats(ctx context.Context) (domain.UsageStats, error) {
	return ss.userFileRepository.FetchUsageStats(ctx, ss.now().UTC())
}
