package jwt

import (
	"errors"
	"time"

	"github.com/asca-arts/gatekeeper/pkg/config"
	"github.com/asca-arts/gatekeeper/pkg/domain/security"
	"github.com/golang-jwt/jwt/v5"
)

const Issuer = "gatekeeper"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

type (
	Manager interface {
		CreateToken(user security.User) (string, error)
		DecodeToken(tokenString string) (*Claims, error)
	}
	manager struct {
		config       *config.AdminConfig
		timeProvider func() time.Time
	}
)

func NewJwtManager(config *config.AdminConfig) Manager {
	return NewJwtManagerWithClock(config, time.Now)
}

func NewJwtManagerWithClock(config *config.AdminConfig, now func() time.Time) Manager {
	return &manager{
		config:       config,
		timeProvider: now,
	}
}

type Claims struct {
	UserID    string `json:"user_id"`
	UserEmail string `json:"user_email,omitempty"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) User() security.User {
	return security.User{ID: c.UserID, Email: c.UserEmail, Role: c.Role}
}

func (m *manager) CreateToken(user security.User) (string, error) {
	now := m.timeProvider()
	claims := &Claims{
		UserID:    user.ID,
		UserEmail: user.Email,
		Role:      user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.SecretKey))
}

// DecodeToken verifies the signature and expiry and returns the claims.
func (m *manager) DecodeToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			return []byte(m.config.SecretKey), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.timeProvider),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
