package user_file

import (
	"time"

	"github.com/dustin/go-humanize"

	"file-share-api/internal/domain/user_file"
)

// Mapper renders files for one response: times in loc, link state as of now,
// download URLs under downloadBase.
type Mapper struct {
	Loc          *time.Location
	Now          time.Time
	DownloadBase string
}

func (m Mapper) ToResponseUserFile(fDomain user_file.UserFile) UserFile {
	var uf = UserFile{
		UUID:          fDomain.UUID,
		FileName:      fDomain.FileName,
		Description:   fDomain.Description,
		MimeType:      fDomain.MimeType,
		SizeBytes:     fDomain.SizeBytes,
		Size:          humanize.IBytes(fDomain.SizeBytes),
		UploadedAt:    fDomain.UploadedAt.In(m.Loc).Format(DisplayLayout),
		DownloadCount: fDomain.DownloadCount,
	}
	if fDomain.HasLink() {
		uf.Link = m.ToLink(fDomain)
	}

	return uf
}

func (m Mapper) ToResponseUserFiles(fsDomain user_file.UserFiles) UserFiles {
	ufs := make(UserFiles, len(fsDomain))
	for idx, f := range fsDomain {
		ufs[idx] = m.ToResponseUserFile(*f)
	}

	return ufs
}

func (m Mapper) ToLink(fDomain user_file.UserFile) *Link {
	if !fDomain.HasLink() {
		return nil
	}
	l := &Link{
		Token:       *fDomain.AccessToken,
		DownloadURL: m.DownloadBase + "/" + *fDomain.AccessToken,
		Active:      fDomain.LinkActive(m.Now),
	}
	if fDomain.LinkExpiresAt != nil {
		l.ExpiresAt = fDomain.LinkExpiresAt.In(m.Loc).Format(DisplayLayout)
	}

	return l
}
