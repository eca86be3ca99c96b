package user

import (
	"file-share-api/internal/domain/user"
)

func ToResponseUser(uDomain user.User) User {
	var u = User{
		UUID:        uDomain.UUID,
		Username:    uDomain.Username,
		DisplayName: uDomain.DisplayName,
		Role:        uDomain.Role,
		CreatedAt:   uDomain.CreatedAt,
	}

	return u
}
