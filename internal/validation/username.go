package validation

import (
	"regexp"
	"unicode/utf8"
)

// UsernamePattern запрещает пробельные символы в username
var UsernamePattern = regexp.MustCompile(`^\S+$`)

const (
	// MinUsernameLen минимальная длина username
	MinUsernameLen = 3
	// MaxUsernameLen максимальная длина username
	MaxUsernameLen = 32
	// MinPasswordLen минимальная длина пароля
	MinPasswordLen = 3
	// MaxPasswordBytes предел bcrypt, длина в байтах
	MaxPasswordBytes = 72
)

// ValidateUsername проверяет, что username соответствует требованиям
// Длина: 3-32 символа, без пробелов. Регистр имеет значение.
func ValidateUsername(username string) error {
	if username == "" {
		return fieldError("username", "username is required")
	}

	// длину считаем в символах, а не в байтах
	n := utf8.RuneCountInString(username)
	if n < MinUsernameLen {
		return fieldError("username", "username must at least %d characters long", MinUsernameLen)
	}

	if n > MaxUsernameLen {
		return fieldError("username", "username must not exceed %d characters", MaxUsernameLen)
	}

	if !UsernamePattern.MatchString(username) {
		return fieldError("username", "username cannot contain whitespace")
	}

	return nil
}

// ValidatePassword проверяет минимальные требования к паролю
func ValidatePassword(password string) error {
	if password == "" {
		return fieldError("password", "password is required")
	}

	if utf8.RuneCountInString(password) < MinPasswordLen {
		return fieldError("password", "password must at least %d characters long", MinPasswordLen)
	}

	if len(password) > MaxPasswordBytes {
		return fieldError("password", "password must not exceed %d bytes", MaxPasswordBytes)
	}

	return nil
}
