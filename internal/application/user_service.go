package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-catalog/internal/domain/repository"
	"github.com/oksasatya/go-ddd-catalog/pkg/helpers"
	"github.com/oksasatya/go-ddd-catalog/pkg/mailer"
	mailtpl "github.com/oksasatya/go-ddd-catalog/pkg/mailer/templates"
)

type UserService struct {
	Repo   repo.UserRepository
	Hasher helpers.PasswordHasher
	JWT    *helpers.JWTManager
	Events EventPublisher
	Logger *logrus.Logger
}

func NewUserService(repo repo.UserRepository, hasher helpers.PasswordHasher, jwt *helpers.JWTManager, events EventPublisher, logger *logrus.Logger) *UserService {
	return &UserService{
		Repo:   repo,
		Hasher: hasher,
		JWT:    jwt,
		Events: events,
		Logger: logger,
	}
}

type LoginResult struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Register hashes the password and persists a new user in one transaction.
// The email is stored exactly as received. Uniqueness comes from the
// users_email_key index, so two concurrent registrations of one address
// leave exactly one row.
func (s *UserService) Register(ctx context.Context, email, password string) (*entity.User, error) {
	if email == "" {
		return nil, NewValidationError("email", "is required")
	}
	if password == "" {
		return nil, NewValidationError("password", "is required")
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w: %w", ErrPersistence, err)
	}

	u := &entity.User{Email: email, Password: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("email %s already registered: %w", email, ErrConflict)
		}
		return nil, translate("create user", err)
	}

	s.publishRegistered(ctx, u)
	return u, nil
}

// publishRegistered queues the welcome e-mail. The user is already committed,
// so a broker failure is only logged.
func (s *UserService) publishRegistered(ctx context.Context, u *entity.User) {
	if s.Events == nil {
		return
	}
	job := mailer.EmailJob{
		Event:    mailer.EventUserRegistered,
		To:       u.Email,
		Template: mailtpl.Welcome,
		Data: map[string]any{
			"UserID":       u.ID,
			"RegisteredAt": u.CreatedAt.UTC().Format(time.RFC3339),
		},
	}
	if err := s.Events.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("publish user.registered failed")
	}
}

// Login checks the credentials and issues an access token.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if s.JWT == nil {
		return nil, fmt.Errorf("token issuer not configured: %w", ErrUnavailable)
	}
	u, err := s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, translate("load user", err)
	}
	if !s.Hasher.Verify(u.Password, password) {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.JWT.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return nil, fmt.Errorf("sign token: %w: %w", ErrPersistence, err)
	}
	return &LoginResult{UserID: u.ID, Email: u.Email, AccessToken: token, ExpiresAt: exp}, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, translate("load user", err)
	}
	return u, nil
}
