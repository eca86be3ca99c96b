package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	ErrUsernameTaken = errors.New("user already exists")
	ErrNotFound      = errors.New("user not found")
)

type (
	ID   uint64
	UUID = uuid.UUID
	User struct {
		ID           ID
		UUID         UUID
		Username     string
		PasswordHash string
		DisplayName  string
		Role         string

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	Users []*User
)

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
