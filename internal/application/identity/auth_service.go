package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	domainidentity "github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/identity"
	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/domain/shared"
)

// TokenIssuer issues access tokens for authenticated users.
// Implemented by the infrastructure JWT service.
type TokenIssuer interface {
	Issue(user *domainidentity.User) (token string, expiresAt time.Time, err error)
}

// LoginResult carries the outcome of a successful login
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domainidentity.User
}

// AuthService authenticates users and issues tokens. The profile fetch after
// a successful credential check is mandatory: a missing or inactive profile
// fails the login instead of substituting placeholder identity.
type AuthService struct {
	users  domainidentity.UserRepository
	tokens TokenIssuer
	logger *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users domainidentity.UserRepository, tokens TokenIssuer, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

// Login verifies credentials, fetches the full profile and issues a token.
// Credential failures and missing users both surface as UNAUTHORIZED so the
// response does not reveal which of the two happened.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, shared.ErrUnauthorized
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, shared.ErrUnauthorized
	}

	// Re-fetch the profile by ID; the token is only ever minted from a
	// complete, active profile.
	profile, err := s.users.FindByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if !profile.Active {
		return nil, shared.ErrForbidden
	}

	token, expiresAt, err := s.tokens.Issue(profile)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in",
		zap.String("user_id", profile.ID.String()),
		zap.String("role", profile.Role.String()))
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: profile}, nil
}
