package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GoArmGo/DaySince/internal/apperr"
	"github.com/GoArmGo/DaySince/internal/core/ports"
	"github.com/GoArmGo/DaySince/internal/domain"
	"github.com/GoArmGo/DaySince/internal/validation"
	"github.com/google/uuid"
)

// UpdateProfileInput в профиле меняется только username
type UpdateProfileInput struct {
	Username string `json:"username" validate:"required,username"`
}

// UserUseCase профиль текущего пользователя
type UserUseCase interface {
	Me(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*domain.User, error)
}

type userUseCase struct {
	users     ports.UserStorage
	validator *validation.Validator
	logger    *slog.Logger
}

func NewUserUseCase(users ports.UserStorage, validator *validation.Validator, logger *slog.Logger) UserUseCase {
	return &userUseCase{users: users, validator: validator, logger: logger}
}

func (uc *userUseCase) Me(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := uc.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("usecase: get user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

// UpdateProfile меняет username; занятое имя даёт Conflict из хранилища
func (uc *userUseCase) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := uc.validator.Validate(in); err != nil {
		return nil, err
	}

	user, err := uc.users.UpdateUsername(ctx, userID, in.Username)
	if err != nil {
		return nil, fmt.Errorf("usecase: update username: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}

	uc.logger.Info("username updated", "user_id", userID)
	return user, nil
}
