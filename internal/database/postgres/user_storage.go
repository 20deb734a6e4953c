package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/DaySince/internal/apperr"
	"github.com/GoArmGo/DaySince/internal/database/dberr"
	"github.com/GoArmGo/DaySince/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserStorage реализует интерфейс ports.UserStorage с использованием GORM
type GormUserStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewGormUserStorage создает новый экземпляр GormUserStorage
func NewGormUserStorage(db *gorm.DB, logger *slog.Logger) *GormUserStorage {
	return &GormUserStorage{db: db, logger: logger}
}

// CreateUser сохраняет нового пользователя
func (s *GormUserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	start := time.Now()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		s.logger.Error("failed to create user", "email", user.Email, "error", err)
		return translateUserError("create user", err)
	}

	s.logger.Info("user created successfully",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetUserByID получает пользователя по ID, (nil, nil) если не найден
func (s *GormUserStorage) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.first(ctx, "id = ?", id)
}

// GetUserByEmail получает пользователя по email, (nil, nil) если не найден
func (s *GormUserStorage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.first(ctx, "email = ?", email)
}

func (s *GormUserStorage) first(ctx context.Context, cond string, arg any) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where(cond, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("failed to get user", "condition", cond, "error", err)
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// UpdateUsername меняет имя пользователя и возвращает обновлённую запись
func (s *GormUserStorage) UpdateUsername(ctx context.Context, id uuid.UUID, username string) (*domain.User, error) {
	res := s.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"username": username, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		s.logger.Error("failed to update username", "user_id", id, "error", res.Error)
		return nil, translateUserError("update username", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("user not found")
	}

	s.logger.Info("username updated", "user_id", id)
	return s.GetUserByID(ctx, id)
}

func translateUserError(op string, err error) error {
	if name, ok := dberr.UniqueViolation(err); ok {
		switch name {
		case dberr.UserUsernameKey:
			return apperr.Conflict("username is already taken").WithCause(err)
		case dberr.UserEmailKey:
			return apperr.Conflict("email is already registered").WithCause(err)
		case dberr.UserGoogleIDKey:
			return apperr.Conflict("account is already linked").WithCause(err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
