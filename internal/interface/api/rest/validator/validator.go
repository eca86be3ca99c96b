package validator

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"file-share-api/internal/interface/api/rest/dto/auth"
	"file-share-api/internal/interface/api/rest/dto/user"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt safe

	minUsernameLen = 3
	maxUsernameLen = 150

	maxDisplayNameLen = 150

	minProfileNameLen = 2
	maxProfileNameLen = 50
)

func IsUUID(s string) (bool, uuid.UUID) {
	id, err := uuid.Parse(s)
	return err == nil, id
}

func ValidateRegister(r auth.RegisterRequest) map[string]string {
	errs := make(map[string]string)

	username := strings.TrimSpace(r.Username)
	displayName := strings.TrimSpace(r.DisplayName)

	// username (required + length + allowed chars)
	if username == "" {
		errs["username"] = "username is required"
	} else if l := utf8.RuneCountInString(username); l < minUsernameLen || l > maxUsernameLen {
		errs["username"] = "username length must be 3–150 characters"
	} else if !isUsername(username) {
		errs["username"] = "allowed characters: letters, digits, '@', '.', '+', '-', '_'"
	}

	// display_name (required + length)
	if displayName == "" {
		errs["display_name"] = "display_name is required"
	} else if utf8.RuneCountInString(displayName) > maxDisplayNameLen {
		errs["display_name"] = "display_name must be at most 150 characters"
	}

	if msg := checkPassword(r.Password); msg != "" {
		errs["password"] = msg
	}

	if len(errs) == 0 {
		return nil
	}

	return errs
}

func ValidateLogin(r auth.LoginRequest) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(r.Username) == "" {
		errs["username"] = "username is required"
	}
	if r.Password == "" {
		errs["password"] = "password is required"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func ValidateProfile(r user.ProfileRequest) map[string]string {
	errs := make(map[string]string)

	name := strings.TrimSpace(r.DisplayName)
	if name == "" {
		errs["display_name"] = "display_name is required"
	} else if l := utf8.RuneCountInString(name); l < minProfileNameLen || l > maxProfileNameLen {
		errs["display_name"] = "display_name length must be 2–50 characters"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func checkPassword(password string) string {
	// passwords are not trimmed; the upper bound is bcrypt's, in bytes
	switch {
	case strings.TrimSpace(password) == "":
		return "password is required"
	case utf8.RuneCountInString(password) < minPasswordLen || len(password) > maxPasswordLen:
		return "password length must be 8–72 characters"
	}
	return ""
}

func isUsername(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("@.+-_", r) {
			continue
		}
		return false
	}
	return true
}
