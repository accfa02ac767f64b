package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/odyssey-erp/salesbook/internal/platform/db"
	"github.com/odyssey-erp/salesbook/internal/shared"
)

const msgUserTaken = "User already registered"

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user User) (User, error)
}

// Service handles user business logic.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
	cost   int
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, cost: bcrypt.DefaultCost}
}

// CreateUser registers an account. Tokens are issued by login only.
func (s *Service) CreateUser(ctx context.Context, req SignupRequest) (shared.Result[UserView], error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return shared.Result[UserView]{}, fmt.Errorf("check user email: %w", err)
	}
	if exists {
		return shared.Fail[UserView](shared.StatusConflict, msgUserTaken), nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return shared.Result[UserView]{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, User{Name: req.Name, Email: req.Email, PasswordHash: string(hash)})
	if errors.Is(err, db.ErrUniqueViolation) {
		return shared.Fail[UserView](shared.StatusConflict, msgUserTaken), nil
	}
	if err != nil {
		return shared.Result[UserView]{}, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info("user registered", slog.Int64("user_id", user.ID))
	return shared.Created(UserView{ID: user.ID, Name: user.Name, Email: user.Email}), nil
}
