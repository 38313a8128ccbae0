package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/Rafuego/symphony-v3/internal/models"
	"github.com/Rafuego/symphony-v3/internal/repository"
	"github.com/Rafuego/symphony-v3/internal/utils"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService issues portal sessions. Clients authenticate with their opaque
// access token (plus a password when the client has one enabled); admins with
// the shared admin password.
type AuthService struct {
	clients       repository.ClientRepository
	sessionSecret string
	adminPassword string
}

func NewAuthService(clients repository.ClientRepository, sessionSecret, adminPassword string) *AuthService {
	return &AuthService{clients: clients, sessionSecret: sessionSecret, adminPassword: adminPassword}
}

// VerifyClient resolves an access token to its client and returns a session
// JWT scoped to that client.
func (a *AuthService) VerifyClient(ctx context.Context, token, password string) (string, *models.Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", nil, errors.New("access token required")
	}

	client, hash, err := a.clients.GetByToken(ctx, token)
	if err != nil {
		return "", nil, err
	}
	if client == nil {
		return "", nil, ErrInvalidCredentials
	}
	if client.PasswordEnabled {
		if password == "" || !utils.CheckPassword(hash, password) {
			return "", nil, ErrInvalidCredentials
		}
	}

	tok, err := utils.SignJWT(a.sessionSecret, client.ID, "client", 24*time.Hour)
	if err != nil {
		return "", nil, err
	}
	return tok, client, nil
}

// VerifyAdmin checks the shared admin password and returns an admin session.
func (a *AuthService) VerifyAdmin(password string) (string, error) {
	if a.adminPassword == "" {
		return "", errors.New("admin access not configured")
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(a.adminPassword)) != 1 {
		return "", ErrInvalidCredentials
	}
	return utils.SignJWT(a.sessionSecret, "admin", "admin", 24*time.Hour)
}
