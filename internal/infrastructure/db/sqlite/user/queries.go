package user

const (
	columns = `id, uuid, username, password_hash, display_name, role, created_at, updated_at`

	SelectUserByUUID     = `SELECT ` + columns + ` FROM users WHERE uuid = ?`
	SelectUserByInternal = `SELECT ` + columns + ` FROM users WHERE id = ?`
	SelectUserByUsername = `SELECT ` + columns + ` FROM users WHERE username = ?`
	InsertUser           = `
		INSERT INTO users (uuid, username, password_hash, display_name, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	UpdateDisplayNameByUUID = `UPDATE users SET display_name = ?, updated_at = ? WHERE uuid = ?`
	SelectIdByUUID          = `SELECT id FROM users WHERE uuid = ?`
)
