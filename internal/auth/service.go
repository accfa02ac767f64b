package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/odyssey-erp/salesbook/internal/format"
	"github.com/odyssey-erp/salesbook/internal/shared"
)

const (
	msgBadCredentials = "Password and/or Email incorrect"
	msgUnauthorized   = "Unauthorized access"
)

// Tokens issues, verifies and revokes access tokens.
type Tokens interface {
	Issue(ctx context.Context, userID int64) (IssuedToken, error)
	Verify(ctx context.Context, token string) (*Claims, error)
	Revoke(ctx context.Context, token string) error
}

// dummyHash is compared against when the email is unknown so both rejection paths pay for
// one bcrypt comparison.
var dummyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("salesbook-unknown-account"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("auth: dummy hash: %v", err))
	}
	return hash
})

// Recorder counts rejected logins.
type Recorder interface {
	LoginFailed()
}

// Service wraps authentication business rules.
type Service struct {
	repo    Repository
	tokens  Tokens
	logger  *slog.Logger
	metrics Recorder
	compare func(hash, password []byte) error
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens Tokens, logger *slog.Logger, metrics Recorder) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:    repo,
		tokens:  tokens,
		logger:  logger,
		metrics: metrics,
		compare: bcrypt.CompareHashAndPassword,
	}
}

// Authenticate validates email/password credentials. Unknown email and wrong password both
// yield shared.ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, shared.ErrNotFound) {
		_ = s.compare(dummyHash(), []byte(password))
		return nil, shared.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := s.compare([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Login exchanges credentials for a bearer token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (shared.Result[TokenView], error) {
	user, err := s.Authenticate(ctx, req.Email, req.Password)
	if errors.Is(err, shared.ErrInvalidCredentials) {
		if s.metrics != nil {
			s.metrics.LoginFailed()
		}
		s.logger.Warn("login rejected", slog.String("email", req.Email))
		return shared.Fail[TokenView](shared.StatusUnauthorized, msgBadCredentials), nil
	}
	if err != nil {
		return shared.Result[TokenView]{}, err
	}

	issued, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return shared.Result[TokenView]{}, fmt.Errorf("issue token: %w", err)
	}
	return shared.OK(TokenView{
		Type:      "bearer",
		Token:     issued.Token,
		ExpiresAt: format.FormatDate(issued.ExpiresAt),
	}), nil
}

// Logout revokes the presented token.
func (s *Service) Logout(ctx context.Context, token string) (shared.Result[struct{}], error) {
	err := s.tokens.Revoke(ctx, token)
	if errors.Is(err, shared.ErrInvalidToken) {
		return shared.Fail[struct{}](shared.StatusUnauthorized, msgUnauthorized), nil
	}
	if err != nil {
		return shared.Result[struct{}]{}, err
	}
	return shared.NoContent[struct{}](), nil
}
