package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/DaySince/internal/apperr"
	"github.com/GoArmGo/DaySince/internal/core/ports"
	"github.com/GoArmGo/DaySince/internal/domain"
	"github.com/GoArmGo/DaySince/internal/validation"
	"github.com/google/uuid"
)

const viewIncrementTimeout = 5 * time.Second

// counterUseCase реализует CounterUseCase
type counterUseCase struct {
	counters  ports.CounterStorage
	slugs     *SlugGenerator
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewCounterUseCase создает новый экземпляр CounterUseCase
func NewCounterUseCase(
	counters ports.CounterStorage,
	validator *validation.Validator,
	logger *slog.Logger,
) CounterUseCase {
	return newCounterUseCase(counters, validator, logger)
}

func newCounterUseCase(counters ports.CounterStorage, validator *validation.Validator, logger *slog.Logger) *counterUseCase {
	return &counterUseCase{
		counters:  counters,
		slugs:     NewSlugGenerator(counters),
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

// Create проверяет ввод, подбирает slug и сохраняет счётчик вместе с тегами
func (uc *counterUseCase) Create(ctx context.Context, in CreateCounterInput, ownerID uuid.UUID) (*domain.Counter, error) {
	in.normalize()
	if err := uc.validator.Validate(in); err != nil {
		return nil, err
	}

	startDate, err := parseStartDate(in.StartDate)
	if err != nil {
		return nil, err
	}

	var days *int
	if in.IsChallenge {
		if days, err = challengeDuration(in.ChallengeDurationDays); err != nil {
			return nil, err
		}
	}

	var slug string
	if !in.IsPrivate && in.Slug != nil {
		taken, err := uc.counters.SlugExists(ctx, *in.Slug, uuid.Nil)
		if err != nil {
			return nil, fmt.Errorf("usecase: check slug: %w", err)
		}
		if taken {
			return nil, apperr.Conflict("slug is already taken")
		}
		slug = *in.Slug
	} else {
		if slug, err = uc.slugs.Generate(ctx, in.Name, uuid.Nil); err != nil {
			return nil, err
		}
	}

	counter := &domain.Counter{
		ID:                    uuid.New(),
		UserID:                ownerID,
		Name:                  in.Name,
		Description:           in.Description,
		StartDate:             startDate,
		IsPrivate:             in.IsPrivate,
		Slug:                  slug,
		IsChallenge:           in.IsChallenge,
		ChallengeDurationDays: days,
	}

	if err := uc.counters.CreateCounter(ctx, counter, in.TagIDs); err != nil {
		return nil, fmt.Errorf("usecase: create counter: %w", err)
	}

	uc.logger.Info("counter created", "counter_id", counter.ID, "user_id", ownerID, "slug", counter.Slug)
	return counter, nil
}

// FindMine отдаёт счётчики владельца, новые первыми, разделённые на активные и архивные
func (uc *counterUseCase) FindMine(ctx context.Context, ownerID uuid.UUID) (*domain.MyCounters, error) {
	counters, err := uc.counters.ListCountersByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("usecase: list own counters: %w", err)
	}
	mine := domain.PartitionByArchived(counters)
	return &mine, nil
}

func (uc *counterUseCase) FindOneOwned(ctx context.Context, id, ownerID uuid.UUID) (*domain.Counter, error) {
	return uc.getOwned(ctx, id, ownerID)
}

// Update применяет частичное обновление. Все проверки выполняются до записи.
func (uc *counterUseCase) Update(ctx context.Context, id uuid.UUID, in UpdateCounterInput, ownerID uuid.UUID) (*domain.Counter, error) {
	in.normalize()
	if err := uc.validator.Validate(in); err != nil {
		return nil, err
	}

	current, err := uc.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	next := *current

	nameChanged := false
	if in.Name != nil && *in.Name != current.Name {
		next.Name = *in.Name
		nameChanged = true
	}

	if in.Description != nil {
		next.Description = normalizeOptional(in.Description)
	}

	startChanged := false
	if in.StartDate != nil {
		startDate, err := parseStartDate(*in.StartDate)
		if err != nil {
			return nil, err
		}
		startChanged = !startDate.Equal(current.StartDate)
		next.StartDate = startDate
	}
	if next.ArchivedAt != nil && next.ArchivedAt.Before(next.StartDate) {
		return nil, apperr.ValidationWithDetails("start date is after the archive date",
			map[string]string{"startDate": "must not be after archivedAt"})
	}

	if in.IsPrivate != nil {
		next.IsPrivate = *in.IsPrivate
	}

	if err := uc.applyChallenge(&next, current, in, startChanged); err != nil {
		return nil, err
	}

	if err := uc.resolveUpdatedSlug(ctx, &next, current, in, nameChanged); err != nil {
		return nil, err
	}

	if err := uc.counters.UpdateCounter(ctx, &next, in.TagIDs); err != nil {
		return nil, fmt.Errorf("usecase: update counter: %w", err)
	}

	uc.logger.Info("counter updated", "counter_id", next.ID, "slug", next.Slug)
	return &next, nil
}

// applyChallenge пересчитывает поля челленджа. Если челлендж остаётся включённым,
// а дата старта или длительность изменились, отметка о достижении сбрасывается.
// Сброс не зависит от приватности: смена видимости без изменения дат отметку не трогает,
// а смена дат сбрасывает её и у публичного счётчика.
func (uc *counterUseCase) applyChallenge(next, current *domain.Counter, in UpdateCounterInput, startChanged bool) error {
	isChallenge := current.IsChallenge
	if in.IsChallenge != nil {
		isChallenge = *in.IsChallenge
	}

	if !isChallenge {
		next.IsChallenge = false
		next.ChallengeDurationDays = nil
		next.ChallengeAchievedAt = nil
		return nil
	}

	requested := current.ChallengeDurationDays
	if in.ChallengeDurationDays != nil {
		requested = in.ChallengeDurationDays
	}
	days, err := challengeDuration(requested)
	if err != nil {
		return err
	}

	durationChanged := current.ChallengeDurationDays == nil || *current.ChallengeDurationDays != *days
	next.IsChallenge = true
	next.ChallengeDurationDays = days
	if !current.IsChallenge || startChanged || durationChanged {
		next.ChallengeAchievedAt = nil
	}
	return nil
}

// resolveUpdatedSlug пересчитывает slug при смене имени, явном новом slug
// или переходе из приватного в публичный. При пересчёте публичного счётчика
// переданный slug имеет приоритет, даже если совпадает с текущим.
func (uc *counterUseCase) resolveUpdatedSlug(ctx context.Context, next, current *domain.Counter, in UpdateCounterInput, nameChanged bool) error {
	slugRequested := in.Slug != nil && *in.Slug != current.Slug
	becamePublic := current.IsPrivate && !next.IsPrivate
	recompute := nameChanged || slugRequested || becamePublic

	switch {
	case in.Slug != nil && !next.IsPrivate && recompute:
		taken, err := uc.counters.SlugExists(ctx, *in.Slug, current.ID)
		if err != nil {
			return fmt.Errorf("usecase: check slug: %w", err)
		}
		if taken {
			return apperr.Conflict("slug is already taken")
		}
		next.Slug = *in.Slug
	case recompute:
		slug, err := uc.slugs.Generate(ctx, next.Name, current.ID)
		if err != nil {
			return err
		}
		next.Slug = slug
	}
	return nil
}

// Archive архивирует активный счётчик; повторный вызов ничего не меняет
func (uc *counterUseCase) Archive(ctx context.Context, id, ownerID uuid.UUID, archiveAt *string) (*domain.Counter, error) {
	counter, err := uc.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if counter.IsArchived() {
		return counter, nil
	}

	now := uc.now().UTC()
	at := now
	if archiveAt != nil {
		if parsed, err := domain.ParseTimestamp(*archiveAt); err == nil {
			at = parsed
		} else {
			uc.logger.Debug("invalid archive date, using current time", "value", *archiveAt)
		}
	}

	if at.Before(counter.StartDate) {
		return nil, apperr.ValidationWithDetails("archive date is before the start date",
			map[string]string{"archiveAt": "must not be before startDate"})
	}
	if at.After(now) {
		return nil, apperr.ValidationWithDetails("archive date is in the future",
			map[string]string{"archiveAt": "must not be in the future"})
	}

	counter.ArchivedAt = &at
	if err := uc.counters.UpdateCounter(ctx, counter, nil); err != nil {
		return nil, fmt.Errorf("usecase: archive counter: %w", err)
	}

	uc.logger.Info("counter archived", "counter_id", counter.ID, "archived_at", at)
	return counter, nil
}

// Unarchive возвращает счётчик в активные; для активного ничего не меняет
func (uc *counterUseCase) Unarchive(ctx context.Context, id, ownerID uuid.UUID) (*domain.Counter, error) {
	counter, err := uc.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if !counter.IsArchived() {
		return counter, nil
	}

	counter.ArchivedAt = nil
	if err := uc.counters.UpdateCounter(ctx, counter, nil); err != nil {
		return nil, fmt.Errorf("usecase: unarchive counter: %w", err)
	}

	uc.logger.Info("counter unarchived", "counter_id", counter.ID)
	return counter, nil
}

func (uc *counterUseCase) Remove(ctx context.Context, id, ownerID uuid.UUID) error {
	if _, err := uc.getOwned(ctx, id, ownerID); err != nil {
		return err
	}
	if err := uc.counters.DeleteCounter(ctx, id); err != nil {
		return fmt.Errorf("usecase: delete counter: %w", err)
	}
	uc.logger.Info("counter removed", "counter_id", id, "user_id", ownerID)
	return nil
}

func (uc *counterUseCase) FindOneBySlugPublic(ctx context.Context, slug string) (*domain.Counter, error) {
	counter, err := uc.counters.GetCounterBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("usecase: get counter by slug: %w", err)
	}
	if counter == nil || counter.IsPrivate {
		return nil, apperr.NotFound("counter not found")
	}

	if !counter.IsArchived() {
		uc.incrementViews(ctx, counter.ID)
	}
	return counter, nil
}

// incrementViews увеличивает просмотры в фоне, не дожидаясь результата.
// Контекст отвязан от запроса, ошибка только логируется.
func (uc *counterUseCase) incrementViews(ctx context.Context, id uuid.UUID) {
	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), viewIncrementTimeout)
	go func() {
		defer cancel()
		if err := uc.counters.IncrementViewCount(bg, id); err != nil {
			uc.logger.Warn("failed to increment view count", "counter_id", id, "error", err)
		}
	}()
}

func (uc *counterUseCase) FindPublic(ctx context.Context, opts PublicListOptions) (*domain.PublicPage, error) {
	q, err := BuildPublicQuery(opts)
	if err != nil {
		return nil, err
	}

	page, err := uc.counters.ListPublicCounters(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("usecase: list public counters: %w", err)
	}
	return &page, nil
}

// getOwned загружает счётчик и проверяет владельца: сначала NotFound, потом Forbidden
func (uc *counterUseCase) getOwned(ctx context.Context, id, ownerID uuid.UUID) (*domain.Counter, error) {
	counter, err := uc.counters.GetCounterByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("usecase: get counter: %w", err)
	}
	if counter == nil {
		return nil, apperr.NotFound("counter not found")
	}
	if counter.UserID != ownerID {
		return nil, apperr.Forbidden("counter belongs to another user")
	}
	return counter, nil
}

func parseStartDate(s string) (time.Time, error) {
	d, err := domain.ParseDate(s)
	if err != nil {
		return time.Time{}, apperr.ValidationWithDetails("invalid start date",
			map[string]string{"startDate": "must be a date in YYYY-MM-DD format"})
	}
	return d, nil
}

func challengeDuration(days *int) (*int, error) {
	if days == nil || *days < 1 {
		return nil, apperr.ValidationWithDetails("challenge duration is required",
			map[string]string{"challengeDurationDays": "must be a positive integer when isChallenge is true"})
	}
	d := *days
	return &d, nil
}
