package admin

import (
	"errors"
	"strings"

	"github.com/asca-arts/gatekeeper/pkg/config"
	"github.com/asca-arts/gatekeeper/pkg/domain/security"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// dummyHash keeps the cost of a lookup miss equal to a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("gatekeeper-dummy-password"), bcrypt.DefaultCost)

type Authenticator interface {
	Authenticate(email, password string) (security.User, error)
}

type authenticator struct {
	users map[string]config.AdminUser
}

func NewAuthenticator(users []config.AdminUser) Authenticator {
	byEmail := make(map[string]config.AdminUser, len(users))
	for _, u := range users {
		byEmail[strings.ToLower(strings.TrimSpace(u.Email))] = u
	}
	return &authenticator{users: byEmail}
}

func (a *authenticator) Authenticate(email, password string) (security.User, error) {
	user, ok := a.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok || user.PasswordHash == "" {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return security.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return security.User{}, ErrInvalidCredentials
	}
	return security.User{ID: user.ID, Email: user.Email, Role: user.Role}, nil
}

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
