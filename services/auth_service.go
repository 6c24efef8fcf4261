package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/team-manager/models"
	"github.com/Dosada05/team-manager/repositories"
	"github.com/Dosada05/team-manager/utils"
)

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*models.User, error)
	GetUser(ctx context.Context, scope Scope) (*models.User, error)
}

type RegisterInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authService struct {
	userRepo repositories.UserRepository
	logger   *slog.Logger
}

func NewAuthService(userRepo repositories.UserRepository, logger *slog.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	username, err := requireText("username", input.Username)
	if err != nil {
		return nil, err
	}
	email := strings.TrimSpace(input.Email)
	if !utils.IsValidEmail(email) {
		return nil, invalidInputf("email %q is not valid", input.Email)
	}
	if input.Password == "" {
		return nil, invalidInputf("password is required")
	}
	if input.Password != input.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	// Проверки до хеширования, чтобы не тратить время на bcrypt.
	if exists, err := s.userRepo.ExistsByUsername(ctx, username); err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	} else if exists {
		return nil, ErrUsernameTaken
	}
	if exists, err := s.userRepo.ExistsByEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if exists {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
	}

	err = s.userRepo.Create(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrUserUsernameConflict):
			return nil, ErrUsernameTaken
		case errors.Is(err, repositories.ErrUserEmailConflict):
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "User registered", slog.Int("user_id", user.ID), slog.String("username", user.Username))
	user.PasswordHash = ""
	return user, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}

	if !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *authService) GetUser(ctx context.Context, scope Scope) (*models.User, error) {
	if err := scope.RequireUser(); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, scope.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			// сессия ссылается на удалённого пользователя
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to get user %d: %w", scope.UserID, err)
	}
	user.PasswordHash = ""
	return user, nil
}
