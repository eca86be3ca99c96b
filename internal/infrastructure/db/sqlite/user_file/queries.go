package user_file

const (
	columns = `id, uuid, user_id, file_name, description, mime_type, size_bytes, storage_path, status,
		uploaded_at, download_count, access_token, link_expires_at`

	InsertUserFile = `
		INSERT INTO user_files (uuid, user_id, file_name, description, mime_type, status, uploaded_at)
		VALUES (?, ?, ?, ?, ?, 'pending', ?)
	`
	MarkUserFileReady = `
		UPDATE user_files
		SET storage_path = ?, size_bytes = ?, mime_type = ?, status = 'ready'
		WHERE id = ?
	`
	SelectUserFileByID   = `SELECT ` + columns + ` FROM user_files WHERE id = ?`
	SelectUserFileByUUID = `SELECT ` + columns + ` FROM user_files WHERE uuid = ? AND status = 'ready'`
	SelectUserFiles      = `
		SELECT ` + columns + `
		FROM user_files
		WHERE user_id = ? AND status = 'ready'
		ORDER BY uploaded_at, id
	`
	SelectUserFileByToken = `SELECT ` + columns + ` FROM user_files WHERE access_token = ? AND status = 'ready'`
	UpdateDescription     = `UPDATE user_files SET description = ? WHERE id = ?`
	UpdateLink            = `UPDATE user_files SET access_token = ?, link_expires_at = ? WHERE id = ?`
	IncrementDownloadCount = `
		UPDATE user_files
		SET download_count = download_count + 1
		WHERE id = ?
		RETURNING download_count
	`
	DeleteUserFileByID = `DELETE FROM user_files WHERE id = ?`
	SelectStalePending = `
		SELECT ` + columns + `
		FROM user_files
		WHERE status = 'pending' AND uploaded_at < ?
	`
	SelectUsageStats = `
		SELECT u.username,
		       COUNT(f.id),
		       COUNT(f.access_token),
		       COALESCE(SUM(CASE WHEN f.access_token IS NOT NULL AND f.link_expires_at > ? THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(f.download_count), 0)
		FROM users u
		LEFT JOIN user_files f ON f.user_id = u.id AND f.status = 'ready'
		GROUP BY u.id, u.username
		ORDER BY u.username
	`
)
