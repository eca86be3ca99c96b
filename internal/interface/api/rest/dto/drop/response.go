package drop

type (
	Entry struct {
		UUID         string `json:"uuid"`
		OriginalName string `json:"original_name"`
		UploadDate   string `json:"upload_date"`
		Extension    string `json:"extension"`
		MD5          string `json:"md5"`
	}
	Entries      []Entry
	ResponseData struct {
		Data Entries `json:"data"`
	}
)
