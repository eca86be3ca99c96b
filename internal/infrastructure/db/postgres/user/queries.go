package user

const (
	SelectUserByID = `
		SELECT id, uuid, username, password_hash, display_name, role, created_at, updated_at
		FROM users
		WHERE uuid = $1
	`
	SelectUserByUsername = `
		SELECT id, uuid, username, password_hash, display_name, role, created_at, updated_at
		FROM users
		WHERE username = $1
	`
	InsertUser = `
		INSERT INTO users (uuid, username, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING
		  id, uuid, username, password_hash, display_name, role, created_at, updated_at
	`
	UpdateDisplayNameByUUID = `
		UPDATE users
		SET display_name = $1,
		    updated_at = now()
		WHERE uuid = $2
		RETURNING
		  id, uuid, username, password_hash, display_name, role, created_at, updated_at
	`
	SelectIdByUUID = `SELECT id FROM users WHERE uuid = $1::uuid`
)
