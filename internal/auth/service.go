package auth

import (
	"errors"
	"fmt"
	"time"

	"rubconv/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// RoleOperator is the only role accepted on maintenance endpoints
const RoleOperator = "operator"

var (
	// ErrInvalidToken indicates the token is invalid
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired indicates the token has expired
	ErrTokenExpired = errors.New("token expired")
	// ErrNotOperator indicates a valid token without the operator role
	ErrNotOperator = errors.New("operator role required")
)

// Service issues and validates operator tokens
type Service struct {
	config config.AuthConfig
}

// NewService creates a new authentication service
func NewService(cfg config.AuthConfig) *Service {
	return &Service{config: cfg}
}

// GenerateToken generates a new operator JWT for subject
func (s *Service) GenerateToken(subject string) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("token subject is required")
	}

	claims := jwt.MapClaims{
		"sub":  subject,
		"role": RoleOperator,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(s.config.TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.TokenSecret))
}

// ValidateToken validates a JWT token and returns its subject
func (s *Service) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.config.TokenSecret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	if role, _ := claims["role"].(string); role != RoleOperator {
		return "", ErrNotOperator
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", ErrInvalidToken
	}
	return subject, nil
}
