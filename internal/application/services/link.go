package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	domain "file-share-api/internal/domain/user_file"
)

const DefaultLinkTTL = 12 * time.Hour

// LinkIssuer hands out public download tokens. A token is valid strictly
// before its expiry instant.
type LinkIssuer struct {
	repo     domain.Repository
	ttl      time.Duration
	now      func() time.Time
	newToken func() string
}

func NewLinkIssuer(repo domain.Repository, ttl time.Duration) *LinkIssuer {
	if ttl <= 0 {
		ttl = DefaultLinkTTL
	}
	return &LinkIssuer{
		repo:     repo,
		ttl:      ttl,
		now:      time.Now,
		newToken: func() string { return uuid.NewString() },
	}
}

// Issue replaces any previous token of f; the window starts now.
func (li *LinkIssuer) Issue(ctx context.Context, f *domain.UserFile) (*domain.UserFile, error) {
	expiresAt := li.now().UTC().Add(li.ttl)

	out, err := li.repo.SetLink(ctx, f.ID, li.newToken(), expiresAt)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("%w: file %s", ErrNotFound, f.UUID)
	}

	return out, nil
}

func (li *LinkIssuer) Validate(ctx context.Context, token string, now time.Time) (*domain.UserFile, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: link", ErrNotFound)
	}

	f, err := li.repo.FetchByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("%w: link", ErrNotFound)
	}
	if !f.LinkActive(now) {
		return nil, ErrLinkExpired
	}

	return f, nil
}
