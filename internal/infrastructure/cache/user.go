package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"

	"file-share-api/internal/domain/user"
)

const cacheName = "users"

// UserRepository caches user lookups by UUID in front of another
// user.Repository. Entries are dropped on every display name change.
type UserRepository struct {
	next     user.Repository
	byUUID   *expirable.LRU[user.UUID, *user.User]
	mCounter *prometheus.CounterVec
}

func NewUserRepository(
	next user.Repository,
	size int,
	ttl time.Duration,
	mCounter *prometheus.CounterVec,
) *UserRepository {
	return &UserRepository{
		next:     next,
		byUUID:   expirable.NewLRU[user.UUID, *user.User](size, nil, ttl),
		mCounter: mCounter,
	}
}

func (r *UserRepository) count(result string) {
	if r.mCounter != nil {
		r.mCounter.WithLabelValues(cacheName, result).Inc()
	}
}

func (r *UserRepository) FetchUserByID(ctx context.Context, uuid user.UUID) (*user.User, error) {
	if u, ok := r.byUUID.Get(uuid); ok {
		r.count("hit")
		cp := *u
		return &cp, nil
	}
	r.count("miss")

	u, err := r.next.FetchUserByID(ctx, uuid)
	if err != nil || u == nil {
		return u, err
	}
	r.store(u)

	return u, nil
}

func (r *UserRepository) FetchUserByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.next.FetchUserByUsername(ctx, username)
}

func (r *UserRepository) CreateUser(ctx context.Context, req user.User) (*user.User, error) {
	u, err := r.next.CreateUser(ctx, req)
	if err != nil || u == nil {
		return u, err
	}
	r.store(u)

	return u, nil
}

func (r *UserRepository) UpdateDisplayName(ctx context.Context, uuid user.UUID, displayName string) (*user.User, error) {
	r.byUUID.Remove(uuid)

	u, err := r.next.UpdateDisplayName(ctx, uuid, displayName)
	if err != nil || u == nil {
		return u, err
	}
	r.store(u)

	return u, nil
}

func (r *UserRepository) FetchInternalID(ctx context.Context, uuid user.UUID) (user.ID, error) {
	if u, ok := r.byUUID.Get(uuid); ok {
		r.count("hit")
		return u.ID, nil
	}
	r.count("miss")

	u, err := r.next.FetchUserByID(ctx, uuid)
	if err != nil {
		return 0, err
	}
	if u == nil {
		return r.next.FetchInternalID(ctx, uuid)
	}
	r.store(u)

	return u.ID, nil
}

func (r *UserRepository) store(u *user.User) {
	cp := *u
	r.byUUID.Add(u.UUID, &cp)
}
