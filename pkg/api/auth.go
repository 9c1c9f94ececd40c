package api

import "time"

// CreateUserRequest представляет запрос на регистрацию нового пользователя
type CreateUserRequest struct {
	Username string `json:"username"` // username пользователя, регистрозависимый
	Name     string `json:"name"`     // отображаемое имя
	Password string `json:"password"` // пароль в открытом виде, хешируется на сервере
}

// UserResponse представляет пользователя вместе с его записями
type UserResponse struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`       // UUID пользователя
	Username  string    `json:"username"` // username пользователя
	Name      string    `json:"name"`     // отображаемое имя
	Blogs     []string  `json:"blogs"`    // ID записей, принадлежащих пользователю
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse представляет ответ с токеном сессии
type LoginResponse struct {
	Token    string `json:"token"`    // JWT токен сессии
	Username string `json:"username"` // username пользователя
	Name     string `json:"name"`     // отображаемое имя
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
	Field   string `json:"field,omitempty"`   // поле, не прошедшее валидацию
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Storage string `json:"storage,omitempty"` // состояние хранилища
}
