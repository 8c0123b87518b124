package request

import (
	"errors"
	"strings"
)

type IssueTokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *IssueTokenRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return errors.New("email is required")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	return nil
}
