package usecase

import (
	"context"
	"fmt"

	"github.com/GoArmGo/DaySince/internal/core/ports"
	"github.com/GoArmGo/DaySince/internal/domain"
)

// TagUseCase справочник тегов
type TagUseCase interface {
	List(ctx context.Context) ([]domain.Tag, error)
}

type tagUseCase struct {
	tags ports.TagStorage
}

func NewTagUseCase(tags ports.TagStorage) TagUseCase {
	return &tagUseCase{tags: tags}
}

// List отдаёт все теги по алфавиту
func (uc *tagUseCase) List(ctx context.Context) ([]domain.Tag, error) {
	tags, err := uc.tags.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("usecase: list tags: %w", err)
	}
	return tags, nil
}
