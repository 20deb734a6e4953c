package usecase

import (
	"context"
	"strings"

	"github.com/GoArmGo/DaySince/internal/domain"
	"github.com/google/uuid"
)

// CreateCounterInput данные для создания счётчика.
type CreateCounterInput struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	// StartDate в формате YYYY-MM-DD или RFC3339
	StartDate string `json:"startDate" validate:"required"`
	IsPrivate bool   `json:"isPrivate"`
	TagIDs    []int  `json:"tagIds" validate:"omitempty,dive,gt=0"`
	// Slug учитывается только для публичного счётчика
	Slug                  *string `json:"slug" validate:"omitempty,min=3,max=80,slug"`
	IsChallenge           bool    `json:"isChallenge"`
	ChallengeDurationDays *int    `json:"challengeDurationDays"`
}

func (in *CreateCounterInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = normalizeOptional(in.Description)
	in.StartDate = strings.TrimSpace(in.StartDate)
}

// UpdateCounterInput частичное обновление: nil означает "не менять".
// TagIDs != nil (в том числе пустой срез) полностью заменяет набор тегов.
// Пустая строка в Description очищает описание.
type UpdateCounterInput struct {
	Name                  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description           *string `json:"description" validate:"omitempty,max=500"`
	StartDate             *string `json:"startDate"`
	IsPrivate             *bool   `json:"isPrivate"`
	TagIDs                *[]int  `json:"tagIds" validate:"omitempty,dive,gt=0"`
	Slug                  *string `json:"slug" validate:"omitempty,min=3,max=80,slug"`
	IsChallenge           *bool   `json:"isChallenge"`
	ChallengeDurationDays *int    `json:"challengeDurationDays"`
}

func (in *UpdateCounterInput) normalize() {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		in.Description = &desc
	}
}

func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// CounterUseCase определяет бизнес-логику работы со счётчиками.
// Методы с ownerID сначала проверяют существование (NotFound), затем владельца (Forbidden).
type CounterUseCase interface {
	Create(ctx context.Context, in CreateCounterInput, ownerID uuid.UUID) (*domain.Counter, error)

	// FindMine отдаёт все счётчики владельца, разделённые на активные и архивные
	FindMine(ctx context.Context, ownerID uuid.UUID) (*domain.MyCounters, error)

	FindOneOwned(ctx context.Context, id, ownerID uuid.UUID) (*domain.Counter, error)

	Update(ctx context.Context, id uuid.UUID, in UpdateCounterInput, ownerID uuid.UUID) (*domain.Counter, error)

	// Archive архивирует счётчик датой archiveAt (сейчас, если не задана или не разбирается)
	Archive(ctx context.Context, id, ownerID uuid.UUID, archiveAt *string) (*domain.Counter, error)

	Unarchive(ctx context.Context, id, ownerID uuid.UUID) (*domain.Counter, error)

	Remove(ctx context.Context, id, ownerID uuid.UUID) error

	// FindOneBySlugPublic отдаёт публичный счётчик; приватный неотличим от отсутствующего.
	// Для активного счётчика в фоне увеличивается счётчик просмотров.
	FindOneBySlugPublic(ctx context.Context, slug string) (*domain.Counter, error)

	FindPublic(ctx context.Context, opts PublicListOptions) (*domain.PublicPage, error)
}
