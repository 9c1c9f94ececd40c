package models

import "time"

// User представляет пользователя в системе
type User struct {
	CreatedAt    time.Time `json:"created_at"` // время создания
	ID           string    `json:"id"`         // UUID пользователя
	Username     string    `json:"username"`   // уникальный username (регистрозависимый)
	Name         string    `json:"name"`       // отображаемое имя
	PasswordHash string    `json:"-"`          // bcrypt хеш пароля, наружу не отдается
}

// Identity is the principal resolved from a valid session token.
type Identity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}
