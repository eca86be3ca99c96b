package user_file

import (
	"file-share-api/internal/domain/user"
	domain "file-share-api/internal/domain/user_file"
)

func fromDBModel(model *UserFile) *domain.UserFile {
	var uf = &domain.UserFile{
		ID:     domain.ID(model.ID),
		UUID:   model.UUID,
		UserID: user.ID(model.UserID),

		FileName:    model.FileName,
		Description: model.Description,
		MimeType:    model.MimeType,
		SizeBytes:   model.SizeBytes,
		Status:      model.Status,

		UploadedAt:    model.UploadedAt.UTC(),
		DownloadCount: model.DownloadCount,

		AccessToken: model.AccessToken,
	}
	if model.StoragePath != nil {
		uf.StoragePath = *model.StoragePath
	}
	if model.LinkExpiresAt != nil {
		exp := model.LinkExpiresAt.UTC()
		uf.LinkExpiresAt = &exp
	}

	return uf
}

func fromDBModels(models UserFiles) domain.UserFiles {
	ufs := make(domain.UserFiles, len(models))
	for idx, uf := range models {
		ufs[idx] = fromDBModel(uf)
	}

	return ufs
}
