package drop

import (
	"file-share-api/internal/domain/drop"
)

func ToResponseEntry(e drop.Entry) Entry {
	return Entry{
		UUID:         e.Key,
		OriginalName: e.OriginalName,
		UploadDate:   e.UploadedAt.Format(drop.DateLayout),
		Extension:    e.Extension,
		MD5:          e.Fingerprint,
	}
}

func ToResponseEntries(es drop.Entries) Entries {
	out := make(Entries, len(es))
	for idx, e := range es {
		out[idx] = ToResponseEntry(e)
	}

	return out
}
