package service

import (
	"context"
	"crypto/subtle"

	"go.opentelemetry.io/otel"
	"golang.org/x/crypto/bcrypt"

	"github.com/aliyabuz25/forsaj-cms/internal/domain"
)

var tracer = otel.Tracer("auth")

// AuthService is the thin admin authentication collaborator: a single bcrypt
// password hash and a static bearer token from configuration. Session
// mechanics beyond this are out of scope for the content core.
type AuthService struct {
	passwordHash string
	token        string
}

func NewAuthService(passwordHash string, token string) *AuthService {
	return &AuthService{
		passwordHash: passwordHash,
		token:        token,
	}
}

// Login verifies the admin password and returns the API token.
func (s *AuthService) Login(ctx context.Context, password string) (string, error) {
	_, span := tracer.Start(ctx, "Auth.Service.Login")
	defer span.End()

	err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password))
	if err != nil {
		span.RecordError(err)
		return "", domain.ValidationError{Reason: "wrong password"}
	}
	return s.token, nil
}

func (s *AuthService) VerifyToken(token string) bool {
	if s.token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) == 1
}
