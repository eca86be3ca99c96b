package user

import (
	domain "file-share-api/internal/domain/user"
)

func fromDBModel(model *User) *domain.User {
	var u = &domain.User{
		ID:           domain.ID(model.ID),
		UUID:         model.UUID,
		Username:     model.Username,
		PasswordHash: model.PasswordHash,
		DisplayName:  model.DisplayName,
		Role:         model.Role,

		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}

	return u
}
