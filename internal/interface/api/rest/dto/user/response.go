package user

import (
	"time"

	"github.com/google/uuid"
)

type (
	User struct {
		UUID        uuid.UUID `json:"uuid"`
		Username    string    `json:"username"`
		DisplayName string    `json:"display_name"`
		Role        string    `json:"role"`
		CreatedAt   time.Time `json:"created_at"`
	}
	ProfileRequest struct {
		DisplayName string `json:"display_name"`
	}
)
