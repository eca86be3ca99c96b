package user_file

const (
	columns = `id, uuid, user_id, file_name, description, mime_type, size_bytes, storage_path, status,
		uploaded_at, download_count, access_token, link_expires_at`

	InsertUserFile = `
		INSERT INTO user_files (uuid, user_id, file_name, description, mime_type, status, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, 'pending', $6)
		RETURNING ` + columns
	MarkUserFileReady = `
		UPDATE user_files
		SET storage_path = $1,
		    size_bytes = $2,
		    mime_type = $3,
		    status = 'ready'
		WHERE id = $4
		RETURNING ` + columns
	SelectUserFileByUUID = `
		SELECT ` + columns + `
		FROM user_files
		WHERE uuid = $1 AND status = 'ready'
	`
	SelectUserFiles = `
		SELECT ` + columns + `
		FROM user_files
		WHERE user_id = $1 AND status = 'ready'
		ORDER BY uploaded_at, id
	`
	SelectUserFileByToken = `
		SELECT ` + columns + `
		FROM user_files
		WHERE access_token = $1 AND status = 'ready'
	`
	UpdateDescription = `
		UPDATE user_files
		SET description = $1
		WHERE id = $2
		RETURNING ` + columns
	UpdateLink = `
		UPDATE user_files
		SET access_token = $1,
		    link_expires_at = $2
		WHERE id = $3
		RETURNING ` + columns
	IncrementDownloadCount = `
		UPDATE user_files
		SET download_count = download_count + 1
		WHERE id = $1
		RETURNING download_count
	`
	DeleteUserFileByID = `DELETE FROM user_files WHERE id = $1`
	DeleteStalePending = `
		DELETE FROM user_files
		WHERE status = 'pending' AND uploaded_at < $1
		RETURNING ` + columns
	SelectUsageStats = `
		SELECT u.username,
		       COUNT(f.id),
		       COUNT(f.access_token),
		       COUNT(f.id) FILTER (WHERE f.access_token IS NOT NULL AND f.link_expires_at > $1),
		       COALESCE(SUM(f.download_count), 0)::BIGINT
		FROM users u
		LEFT JOIN user_files f ON f.user_id = u.id AND f.status = 'ready'
		GROUP BY u.id, u.username
		ORDER BY u.username
	`
)
