package app

import (
	"log/slog"

	"github.com/boosteam/boosteam-api/internal/auth"
)

// AuthParams carries the collaborators shared by login and request
// authentication.
type AuthParams struct {
	Config   *Config
	Repo     auth.Repository
	Roles    auth.RoleLoader
	Recorder auth.LoginRecorder
	Logger   *slog.Logger
}

// AuthStack is the login service and request authenticator built on one token
// issuer and one last-login recorder.
type AuthStack struct {
	Tokens        *auth.TokenIssuer
	Service       *auth.Service
	Authenticator *auth.Authenticator
}

// NewAuthStack wires the auth components. Without a recorder, last login is
// written inline through the repository.
func NewAuthStack(p AuthParams) AuthStack {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	recorder := p.Recorder
	if recorder == nil {
		recorder = auth.NewInlineRecorder(p.Repo, logger)
	}
	tokens := auth.NewTokenIssuer(p.Config.JWTSecret, p.Config.TokenTTL)
	return AuthStack{
		Tokens:        tokens,
		Service:       auth.NewService(p.Repo, auth.NewPasswordHasher(p.Config.BcryptCost), tokens, recorder, logger),
		Authenticator: auth.NewAuthenticator(tokens, p.Repo, p.Roles, recorder, logger),
	}
}
