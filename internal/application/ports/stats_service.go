package ports

import (
	"context"

	"file-share-api/internal/domain/user_file"
)

type StatsService interface {
	UsageStats(ctx context.Context) (user_file.UsageStats, error)
}
