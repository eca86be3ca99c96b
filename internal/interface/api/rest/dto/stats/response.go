package stats

import (
	"file-share-api/internal/domain/user_file"
)

type (
	UsageStat struct {
		Username       string `json:"username"`
		TotalFiles     uint64 `json:"total_files"`
		LinksCreated   uint64 `json:"links_created"`
		ActiveLinks    uint64 `json:"active_links"`
		TotalDownloads uint64 `json:"total_downloads"`
	}
	ResponseData struct {
		Data []UsageStat `json:"data"`
	}
)

func ToResponseStats(in user_file.UsageStats) ResponseData {
	out := make([]UsageStat, len(in))
	for idx, s := range in {
		out[idx] = UsageStat(s)
	}

	return ResponseData{Data: out}
}
