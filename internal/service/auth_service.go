package service

import (
	"errors"

	"github.com/HebleV/putmeonmap/internal/auth"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService authenticates the single configured admin account.
type AuthService struct {
	email     string
	passHash  string
	jwtSecret string
}

// NewAuthService hashes password up front so login never compares
// plaintext.
func NewAuthService(email, password, jwtSecret string) (*AuthService, error) {
	if password == "" {
		return &AuthService{email: email, jwtSecret: jwtSecret}, nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &AuthService{email: email, passHash: hash, jwtSecret: jwtSecret}, nil
}

type AuthResult struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	if s.passHash == "" || email != s.email {
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPassword(s.passHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.Issue(email)
}

// Issue mints an admin token without a password check; the CLI uses it.
func (s *AuthService) Issue(email string) (*AuthResult, error) {
	token, err := auth.GenerateToken(s.jwtSecret, email, "admin")
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Email: email}, nil
}
