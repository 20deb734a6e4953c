package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/DaySince/internal/apperr"
	"github.com/GoArmGo/DaySince/internal/database/dberr"
	"github.com/GoArmGo/DaySince/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const counterColumns = `c.id, c.user_id, c.name, c.description, c.start_date, c.archived_at,
	c.is_private, c.view_count, c.slug, c.is_challenge, c.challenge_duration_days,
	c.challenge_achieved_at, c.created_at, c.updated_at`

const selectCounterWithOwner = `SELECT ` + counterColumns + `, u.username AS owner_username
	FROM counters c
	JOIN users u ON u.id = c.user_id`

const insertCounterQuery = `
	INSERT INTO counters (id, user_id, name, description, start_date, archived_at, is_private, view_count,
		slug, is_challenge, challenge_duration_days, challenge_achieved_at, created_at, updated_at)
	VALUES (:id, :user_id, :name, :description, :start_date, :archived_at, :is_private, :view_count,
		:slug, :is_challenge, :challenge_duration_days, :challenge_achieved_at, :created_at, :updated_at)`

const updateCounterQuery = `
	UPDATE counters SET
		name = :name,
		description = :description,
		start_date = :start_date,
		archived_at = :archived_at,
		is_private = :is_private,
		slug = :slug,
		is_challenge = :is_challenge,
		challenge_duration_days = :challenge_duration_days,
		challenge_achieved_at = :challenge_achieved_at,
		updated_at = :updated_at
	WHERE id = :id`

const selectOwnerUsername = `SELECT username FROM users WHERE id = $1`

const insertCounterTagsQuery = `INSERT INTO counter_tags (counter_id, tag_id) VALUES (:counter_id, :tag_id)`

const selectTagsForCounters = `
	SELECT ct.counter_id, t.id, t.name, t.slug
	FROM counter_tags ct
	JOIN tags t ON t.id = ct.tag_id
	WHERE ct.counter_id = ANY($1::uuid[])
	ORDER BY t.name ASC`

// counterRow строка выборки счётчика вместе с именем владельца.
type counterRow struct {
	domain.Counter
	OwnerUsername sql.NullString `db:"owner_username"`
}

func (r counterRow) toDomain(tags map[uuid.UUID][]domain.Tag) domain.Counter {
	c := r.Counter
	c.Tags = tags[c.ID]
	if c.Tags == nil {
		c.Tags = []domain.Tag{}
	}
	if r.OwnerUsername.Valid {
		c.User = &domain.CounterOwner{Username: r.OwnerUsername.String}
	}
	return c
}

// CounterStorage реализует ports.CounterStorage поверх sqlx + lib/pq.
type CounterStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewCounterStorage(db *sqlx.DB, logger *slog.Logger) *CounterStorage {
	return &CounterStorage{db: db, logger: logger}
}

// CreateCounter сохраняет счётчик и связи с тегами в одной транзакции
func (s *CounterStorage) CreateCounter(ctx context.Context, counter *domain.Counter, tagIDs []int) (err error) {
	start := time.Now()

	if counter.ID == uuid.Nil {
		counter.ID = uuid.New()
	}
	now := time.Now().UTC()
	counter.CreatedAt, counter.UpdatedAt = now, now

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create counter tx: %w", err)
	}
	defer finishTx(tx, &err)

	if _, err = tx.NamedExecContext(ctx, insertCounterQuery, counter); err != nil {
		s.logger.Error("failed to insert counter", "slug", counter.Slug, "error", err)
		return translateWriteError("insert counter", err)
	}

	if err = insertCounterTags(ctx, tx, counter.ID, tagIDs); err != nil {
		s.logger.Error("failed to insert counter tags", "counter_id", counter.ID, "error", err)
		return err
	}

	tags, err := loadTags(ctx, tx, []uuid.UUID{counter.ID})
	if err != nil {
		return err
	}
	counter.Tags = nonNilTags(tags[counter.ID])

	// владелец прикладывается так же, как при чтении
	var username string
	if err = tx.GetContext(ctx, &username, selectOwnerUsername, counter.UserID); err != nil {
		s.logger.Error("failed to load counter owner", "user_id", counter.UserID, "error", err)
		return fmt.Errorf("load counter owner: %w", err)
	}
	counter.User = &domain.CounterOwner{Username: username}

	s.logger.Info("counter saved successfully",
		"id", counter.ID,
		"slug", counter.Slug,
		"tags", len(counter.Tags),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetCounterByID получает счётчик по ID
func (s *CounterStorage) GetCounterByID(ctx context.Context, id uuid.UUID) (*domain.Counter, error) {
	return s.getOne(ctx, "id", selectCounterWithOwner+` WHERE c.id = $1`, id)
}

// GetCounterBySlug получает счётчик по slug
func (s *CounterStorage) GetCounterBySlug(ctx context.Context, slug string) (*domain.Counter, error) {
	return s.getOne(ctx, "slug", selectCounterWithOwner+` WHERE c.slug = $1`, slug)
}

func (s *CounterStorage) getOne(ctx context.Context, key, query string, arg any) (*domain.Counter, error) {
	start := time.Now()

	var row counterRow
	if err := s.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Debug("counter not found", key, arg)
			return nil, nil
		}
		s.logger.Error("failed to get counter", key, arg, "error", err)
		return nil, fmt.Errorf("get counter by %s: %w", key, err)
	}

	tags, err := loadTags(ctx, s.db, []uuid.UUID{row.ID})
	if err != nil {
		return nil, err
	}

	counter := row.toDomain(tags)
	s.logger.Debug("counter retrieved", key, arg, "duration_ms", time.Since(start).Milliseconds())
	return &counter, nil
}

// SlugExists проверяет, занят ли slug другим счётчиком
func (s *CounterStorage) SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM counters WHERE slug = $1 AND id <> $2)`, slug, excludeID)
	if err != nil {
		s.logger.Error("failed to check slug", "slug", slug, "error", err)
		return false, fmt.Errorf("check slug existence: %w", err)
	}
	return exists, nil
}

// ListCountersByOwner получает все счётчики владельца, новые первыми
func (s *CounterStorage) ListCountersByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Counter, error) {
	start := time.Now()

	var rows []counterRow
	query := selectCounterWithOwner + ` WHERE c.user_id = $1 ORDER BY c.created_at DESC`
	if err := s.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		s.logger.Error("failed to list owner counters", "user_id", ownerID, "error", err)
		return nil, fmt.Errorf("list counters by owner: %w", err)
	}

	counters, err := withTags(ctx, s.db, rows)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("listed owner counters",
		"user_id", ownerID,
		"count", len(counters),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return counters, nil
}

// UpdateCounter обновляет счётчик; tagIDs != nil полностью заменяет набор тегов
func (s *CounterStorage) UpdateCounter(ctx context.Context, counter *domain.Counter, tagIDs *[]int) (err error) {
	start := time.Now()
	counter.UpdatedAt = time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update counter tx: %w", err)
	}
	defer finishTx(tx, &err)

	res, err := tx.NamedExecContext(ctx, updateCounterQuery, counter)
	if err != nil {
		s.logger.Error("failed to update counter", "id", counter.ID, "error", err)
		return translateWriteError("update counter", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = apperr.NotFound("counter not found")
		return err
	}

	if tagIDs != nil {
		if _, err = tx.ExecContext(ctx, `DELETE FROM counter_tags WHERE counter_id = $1`, counter.ID); err != nil {
			return fmt.Errorf("clear counter tags: %w", err)
		}
		if err = insertCounterTags(ctx, tx, counter.ID, *tagIDs); err != nil {
			return err
		}
	}

	tags, err := loadTags(ctx, tx, []uuid.UUID{counter.ID})
	if err != nil {
		return err
	}
	counter.Tags = nonNilTags(tags[counter.ID])

	s.logger.Info("counter updated successfully",
		"id", counter.ID,
		"tags_replaced", tagIDs != nil,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// DeleteCounter удаляет счётчик, связи с тегами удаляются каскадно
func (s *CounterStorage) DeleteCounter(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM counters WHERE id = $1`, id)
	if err != nil {
		s.logger.Error("failed to delete counter", "id", id, "error", err)
		return fmt.Errorf("delete counter: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("counter not found")
	}
	s.logger.Info("counter deleted", "id", id)
	return nil
}

// IncrementViewCount прибавляет просмотр на стороне бд, без read-modify-write
func (s *CounterStorage) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE counters SET view_count = view_count + 1 WHERE id = $1`, id); err != nil {
		return fmt.Errorf("increment view count: %w", err)
	}
	return nil
}

// ListPublicCounters считает и выбирает страницу публичных активных счётчиков
// в одной read-only транзакции, чтобы total и items были из одного снимка.
func (s *CounterStorage) ListPublicCounters(ctx context.Context, q domain.PublicQuery) (page domain.PublicPage, err error) {
	start := time.Now()

	where, args := buildPublicFilter(q)

	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return domain.PublicPage{}, fmt.Errorf("begin public list tx: %w", err)
	}
	defer finishTx(tx, &err)

	var total int
	if err = tx.GetContext(ctx, &total, `SELECT COUNT(*) FROM counters c`+where, args...); err != nil {
		s.logger.Error("failed to count public counters", "error", err)
		return domain.PublicPage{}, fmt.Errorf("count public counters: %w", err)
	}

	var counters []domain.Counter
	if total > q.Offset() {
		n := len(args)
		query := selectCounterWithOwner + where + orderClause(q) +
			fmt.Sprintf(` LIMIT $%d OFFSET $%d`, n+1, n+2)

		var rows []counterRow
		if err = tx.SelectContext(ctx, &rows, query, append(args, q.Limit, q.Offset())...); err != nil {
			s.logger.Error("failed to list public counters", "error", err)
			return domain.PublicPage{}, fmt.Errorf("list public counters: %w", err)
		}

		if counters, err = withTags(ctx, tx, rows); err != nil {
			return domain.PublicPage{}, err
		}
	}

	s.logger.Debug("listed public counters",
		"page", q.Page,
		"limit", q.Limit,
		"search", q.Search,
		"tags", q.TagSlugs,
		"total", total,
		"count", len(counters),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return domain.NewPublicPage(counters, total, q), nil
}

func insertCounterTags(ctx context.Context, tx *sqlx.Tx, counterID uuid.UUID, tagIDs []int) error {
	if len(tagIDs) == 0 {
		return nil
	}

	seen := make(map[int]struct{}, len(tagIDs))
	rows := make([]domain.CounterTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, domain.CounterTag{CounterID: counterID, TagID: id})
	}

	if _, err := tx.NamedExecContext(ctx, insertCounterTagsQuery, rows); err != nil {
		return translateWriteError("insert counter tags", err)
	}
	return nil
}

func withTags(ctx context.Context, q sqlx.QueryerContext, rows []counterRow) ([]domain.Counter, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}

	tags, err := loadTags(ctx, q, ids)
	if err != nil {
		return nil, err
	}

	counters := make([]domain.Counter, 0, len(rows))
	for _, r := range rows {
		counters = append(counters, r.toDomain(tags))
	}
	return counters, nil
}

func loadTags(ctx context.Context, q sqlx.QueryerContext, ids []uuid.UUID) (map[uuid.UUID][]domain.Tag, error) {
	if len(ids) == 0 {
		return map[uuid.UUID][]domain.Tag{}, nil
	}

	arr := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		arr = append(arr, id.String())
	}

	var rows []domain.CounterTagRow
	if err := sqlx.SelectContext(ctx, q, &rows, selectTagsForCounters, arr); err != nil {
		return nil, fmt.Errorf("load counter tags: %w", err)
	}
	return domain.FlattenTags(rows), nil
}

func nonNilTags(tags []domain.Tag) []domain.Tag {
	if tags == nil {
		return []domain.Tag{}
	}
	return tags
}

// translateWriteError переводит известные нарушения ограничений в доменные ошибки.
func translateWriteError(op string, err error) error {
	if name, ok := dberr.UniqueViolation(err); ok && name == dberr.CounterSlugKey {
		return apperr.Conflict("slug is already taken").WithCause(err)
	}
	if name, ok := dberr.ForeignKeyViolation(err); ok && name == dberr.CounterTagTagFKey {
		return apperr.Validation("one or more tags do not exist").WithCause(err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// finishTx откатывает транзакцию при ошибке и фиксирует её иначе.
func finishTx(tx *sqlx.Tx, errp *error) {
	if *errp != nil {
		_ = tx.Rollback()
		return
	}
	if err := tx.Commit(); err != nil {
		*errp = fmt.Errorf("commit tx: %w", err)
	}
}
