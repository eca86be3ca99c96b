package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"file-share-api/internal/application/ports"
	domain "file-share-api/internal/domain/user"
	"file-share-api/internal/infrastructure/mq"
	"file-share-api/internal/interface/api/rest/dto/user"
)

type UserService struct {
	userRepository domain.Repository
	mq             ports.EventPublisher
	logger         *zap.Logger
	mCounter       *prometheus.CounterVec
	bcryptCost     int
}

func NewUserService(
	userRepository domain.Repository,
	mq ports.EventPublisher,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
) ports.UserService {
	return &UserService{
		userRepository: userRepository,
		mq:             mq,
		logger:         logger,
		mCounter:       mCounter,
		bcryptCost:     bcrypt.DefaultCost,
	}
}

func (us *UserService) FindUserByID(ctx context.Context, uuid domain.UUID) (*domain.User, error) {
	return us.userRepository.FetchUserByID(ctx, uuid)
}

func (us *UserService) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return us.userRepository.FetchUserByUsername(ctx, strings.TrimSpace(username))
}

// Register hashes password and stores u; duplicate usernames yield domain.ErrUsernameTaken.
func (us *UserService) Register(ctx context.Context, u domain.User, password string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), us.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.Username = strings.TrimSpace(u.Username)
	u.DisplayName = strings.TrimSpace(u.DisplayName)
	u.PasswordHash = string(hash)
	if u.Role == "" {
		u.Role = domain.RoleUser
	}

	uRet, err := us.userRepository.CreateUser(ctx, u)
	if err != nil {
		return nil, err
	}

	us.mq.Publish(mq.NewEvent(mq.KeyUserRegistered, uRet.UUID.String(), user.ToResponseUser(*uRet)))
	us.mCounter.WithLabelValues("user_registered_total").Inc()

	return uRet, nil
}

func (us *UserService) UpdateDisplayName(ctx context.Context, uuid domain.UUID, displayName string) (*domain.User, error) {
	u, err := us.userRepository.UpdateDisplayName(ctx, uuid, strings.TrimSpace(displayName))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: uuid %s", domain.ErrNotFound, uuid)
	}

	return u, nil
}

// EnsureAdmin creates the administrator account unless it exists. An empty
// password disables seeding.
func (us *UserService) EnsureAdmin(ctx context.Context, username, displayName, password string) error {
	if password == "" {
		us.logger.Info("admin seed skipped: no password configured")
		return nil
	}

	existing, err := us.userRepository.FetchUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		if !existing.IsAdmin() {
			us.logger.Warn("admin username is taken by a regular user", zap.String("username", username))
		}
		us.logger.Info("admin user already exists", zap.String("username", username))
		return nil
	}

	_, err = us.Register(ctx, domain.User{
		Username:    username,
		DisplayName: displayName,
		Role:        domain.RoleAdmin,
	}, password)
	if errors.Is(err, domain.ErrUsernameTaken) {
		return nil
	}
	if err != nil {
		return err
	}

	us.logger.Info("admin user created", zap.String("username", username))

	return nil
}
