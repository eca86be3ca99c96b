package user

import (
	"time"

	"github.com/google/uuid"
)

type (
	User struct {
		ID           uint64
		UUID         uuid.UUID
		Username     string
		PasswordHash string
		DisplayName  string
		Role         string

		CreatedAt time.Time
		UpdatedAt time.Time
	}
)
