package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stelle-edu/learning-service/internal/models"
	"github.com/stelle-edu/learning-service/internal/repositories"
	"github.com/stelle-edu/learning-service/internal/validator"
	"github.com/stelle-edu/learning-service/pkg"
)

// The built-in admin account. Signups with this address are rejected so the
// admin identity cannot be shadowed by a student account.
const (
	adminEmail    = "affankhawaja2@gmail.com"
	adminName     = "Affan Khawaja"
	adminPassword = "affan"
)

// AuthConfig carries token issuing settings
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type authService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	config    AuthConfig
}

func NewAuthService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, config AuthConfig) AuthService {
	if config.TokenTTL <= 0 {
		config.TokenTTL = 24 * time.Hour
	}
	return &authService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		config:    config,
	}
}

func (s *authService) Signup(ctx context.Context, req *models.SignupRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	s.logger.Info("Signing up user", "email", email)

	if email == adminEmail {
		return nil, ErrEmailReserved
	}

	taken, err := s.repo.User().ExistsByEmail(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	user := &models.User{
		ID:    uuid.New().String(),
		Name:  strings.TrimSpace(req.Name),
		Email: email,
		Role:  models.RoleStudent,
	}
	if req.Password != "" {
		password := req.Password
		user.Password = &password
	}

	if err := s.repo.User().Create(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: user}, nil
}

func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	s.logger.Info("Logging in user", "email", email)

	user, err := s.repo.User().GetByEmail(ctx, nil, email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	// Accounts with a password require it; accounts without one (students
	// created email-only) log in by email alone.
	if user.Password != nil {
		if subtle.ConstantTimeCompare([]byte(*user.Password), []byte(req.Password)) != 1 {
			return nil, ErrInvalidCredentials
		}
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: user}, nil
}

func (s *authService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *authService) ListStudents(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	role := models.RoleStudent
	filters.Role = &role

	users, total, err := s.repo.User().List(ctx, nil, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list students: %w", err)
	}
	return users, total, nil
}

// Seed creates the built-in admin account if it does not exist yet
func (s *authService) Seed(ctx context.Context) error {
	exists, err := s.repo.User().ExistsByEmail(ctx, nil, adminEmail)
	if err != nil {
		return fmt.Errorf("failed to check admin account: %w", err)
	}
	if exists {
		return nil
	}

	s.logger.Info("Seeding admin account", "email", adminEmail)

	password := adminPassword
	admin := &models.User{
		ID:       uuid.New().String(),
		Name:     adminName,
		Email:    adminEmail,
		Role:     models.RoleAdmin,
		Password: &password,
	}
	return s.repo.User().Create(ctx, nil, admin)
}

func (s *authService) issueToken(user *models.User) (string, error) {
	token, err := pkg.GenerateToken(user.ID, string(user.Role), s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
