// Package jwt issues and validates signed session tokens.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultIssuer is written into the iss claim
const DefaultIssuer = "bloglist"

// ErrInvalidToken wraps every parse, signature or expiry failure
var ErrInvalidToken = errors.New("invalid token")

// Claims представляет JWT claims для нашего приложения
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Service provides JWT token generation and validation.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	now    func() time.Time
	issuer string
	secret []byte
	ttl    time.Duration
}

// NewService creates a new JWT service.
// ttl <= 0 issues tokens without the exp claim.
func NewService(secret []byte, ttl time.Duration) *Service {
	return &Service{
		secret: secret,
		ttl:    ttl,
		issuer: DefaultIssuer,
		now:    time.Now,
	}
}

// Generate создает новый подписанный HS256 токен
func (s *Service) Generate(userID, username string) (string, error) {
	now := s.now()

	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Validate валидирует и парсит токен
func (s *Service) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// TTL returns the configured token lifetime, 0 when tokens never expire
func (s *Service) TTL() time.Duration {
	if s.ttl < 0 {
		return 0
	}
	return s.ttl
}
