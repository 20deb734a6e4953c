package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/DaySince/internal/domain"
	"gorm.io/gorm"
)

// GormTagStorage реализует ports.TagStorage с использованием GORM
type GormTagStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewGormTagStorage(db *gorm.DB, logger *slog.Logger) *GormTagStorage {
	return &GormTagStorage{db: db, logger: logger}
}

// ListTags отдаёт весь справочник тегов по алфавиту
func (s *GormTagStorage) ListTags(ctx context.Context) ([]domain.Tag, error) {
	start := time.Now()

	tags := []domain.Tag{}
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		s.logger.Error("failed to list tags", "error", err)
		return nil, fmt.Errorf("list tags: %w", err)
	}

	s.logger.Debug("tags listed", "count", len(tags), "duration_ms", time.Since(start).Milliseconds())
	return tags, nil
}
