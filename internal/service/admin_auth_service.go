package service

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// AdminAuthService checks the administrator credential.
type AdminAuthService interface {
	// Authenticate returns ErrInvalidCredentials unless email and password
	// match the configured administrator.
	Authenticate(email, password string) error
}

type adminAuthService struct {
	email        string
	passwordHash []byte
}

// NewAdminAuthService returns an AdminAuthService for one administrator. An
// empty hash rejects every login.
func NewAdminAuthService(email, passwordHash string) AdminAuthService {
	return &adminAuthService{
		email:        strings.TrimSpace(email),
		passwordHash: []byte(passwordHash),
	}
}

func (s *adminAuthService) Authenticate(email, password string) error {
	if s.email == "" || len(s.passwordHash) == 0 {
		return ErrInvalidCredentials
	}
	emailOK := strings.EqualFold(strings.TrimSpace(email), s.email)
	// The hash is checked even for a wrong email.
	pwErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !emailOK || pwErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}
