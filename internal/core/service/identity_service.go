package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cointrail/tracker-api/internal/api/metrics"
	"github.com/cointrail/tracker-api/internal/core/domain"
	"github.com/cointrail/tracker-api/internal/core/ports"
)

type identityService struct {
	repo   ports.CredentialRepository
	hasher *PasswordHasher
	tokens *TokenService
	log    zerolog.Logger
}

// NewIdentityService returns an IdentityService backed by the given
// credential repository, password hasher and token service.
func NewIdentityService(
	repo ports.CredentialRepository,
	hasher *PasswordHasher,
	tokens *TokenService,
	log zerolog.Logger,
) ports.IdentityService {
	return &identityService{repo: repo, hasher: hasher, tokens: tokens, log: log}
}

// Register creates a new account. The validation order is fixed: the
// first failing check decides the message the client sees.
func (s *identityService) Register(ctx context.Context, username, password, password2 string) (*ports.RegistrationResult, error) {
	_, err := s.repo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrUsernameTaken
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("register: lookup username: %w", err)
	}

	if password != password2 {
		metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrPasswordMismatch
	}
	if username == "" {
		metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrEmptyUsername
	}
	if password == "" || password2 == "" {
		metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrEmptyPassword
	}

	user := &domain.User{
		Username:       username,
		PasswordDigest: s.hasher.Hash(password),
		CreatedAt:      time.Now().UTC(),
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("register: create user: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	metrics.RegistrationsTotal.WithLabelValues("created").Inc()

	return &ports.RegistrationResult{
		UserID:  created.ID,
		Message: fmt.Sprintf("registration success: #%s %s", created.ID, created.Username),
	}, nil
}

// Login verifies credentials and issues a token bound to the user id.
func (s *identityService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" {
		return nil, domain.ErrEmptyUsername
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
			return nil, err
		}
		return nil, fmt.Errorf("login: lookup username: %w", err)
	}

	if !s.hasher.Compare(password, user.PasswordDigest) {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	metrics.LoginsTotal.WithLabelValues("ok").Inc()

	return &ports.LoginResult{Token: token, Username: user.Username}, nil
}

// IsTokenValid delegates to the token service and discards the detail.
func (s *identityService) IsTokenValid(token string) bool {
	ok, _, _ := s.tokens.Verify(token)
	return ok
}

// UsernameForID resolves the username behind an already-verified token
// subject. Unknown ids are a hard failure.
func (s *identityService) UsernameForID(ctx context.Context, id string) (string, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	return user.Username, nil
}
