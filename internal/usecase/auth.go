package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/DaySince/internal/apperr"
	"github.com/GoArmGo/DaySince/internal/auth"
	"github.com/GoArmGo/DaySince/internal/core/ports"
	"github.com/GoArmGo/DaySince/internal/domain"
	"github.com/GoArmGo/DaySince/internal/validation"
	"github.com/google/uuid"
)

// TokenIssuer выпускает токен доступа для пользователя
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, time.Time, error)
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult токен и пользователь, которому он выдан
type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

// AuthUseCase регистрация и вход по паролю
type AuthUseCase interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
}

type authUseCase struct {
	users     ports.UserStorage
	tokens    TokenIssuer
	validator *validation.Validator
	logger    *slog.Logger
}

func NewAuthUseCase(users ports.UserStorage, tokens TokenIssuer, validator *validation.Validator, logger *slog.Logger) AuthUseCase {
	return &authUseCase{users: users, tokens: tokens, validator: validator, logger: logger}
}

func (uc *authUseCase) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	if err := uc.validator.Validate(in); err != nil {
		return nil, err
	}

	existing, err := uc.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("usecase: lookup user: %w", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("email is already registered")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal("failed to register user", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: &hash,
	}
	if err := uc.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("usecase: create user: %w", err)
	}

	uc.logger.Info("user registered", "user_id", user.ID)
	return uc.issue(user)
}

// Login не различает неизвестный email и неверный пароль
func (uc *authUseCase) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := uc.validator.Validate(in); err != nil {
		return nil, err
	}

	user, err := uc.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("usecase: lookup user: %w", err)
	}
	if user == nil || user.PasswordHash == nil || !auth.CheckPassword(*user.PasswordHash, in.Password) {
		return nil, apperr.Unauthorized("invalid email or password")
	}

	return uc.issue(user)
}

func (uc *authUseCase) issue(user *domain.User) (*AuthResult, error) {
	token, exp, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperr.Internal("failed to issue token", err)
	}
	return &AuthResult{Token: token, ExpiresAt: exp, User: user}, nil
}
