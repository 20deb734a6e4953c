package ports

import (
	"context"

	"github.com/GoArmGo/DaySince/internal/domain"
	"github.com/google/uuid"
)

// CounterStorage определяет методы для взаимодействия с хранилищем счётчиков.
// Get*-методы возвращают (nil, nil), если запись не найдена.
type CounterStorage interface {
	// CreateCounter сохраняет счётчик и его теги в одной транзакции.
	CreateCounter(ctx context.Context, counter *domain.Counter, tagIDs []int) error
	GetCounterByID(ctx context.Context, id uuid.UUID) (*domain.Counter, error)
	GetCounterBySlug(ctx context.Context, slug string) (*domain.Counter, error)
	// SlugExists проверяет занятость slug, игнорируя запись excludeID (uuid.Nil — не игнорировать).
	SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	// ListCountersByOwner отдаёт все счётчики владельца, новые первыми.
	ListCountersByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Counter, error)
	// UpdateCounter обновляет счётчик; при tagIDs != nil набор тегов полностью заменяется.
	UpdateCounter(ctx context.Context, counter *domain.Counter, tagIDs *[]int) error
	DeleteCounter(ctx context.Context, id uuid.UUID) error
	// IncrementViewCount атомарно прибавляет единицу к view_count.
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
	// ListPublicCounters считает и выбирает страницу в одном снимке данных.
	ListPublicCounters(ctx context.Context, q domain.PublicQuery) (domain.PublicPage, error)
}

// TagStorage справочник тегов.
type TagStorage interface {
	ListTags(ctx context.Context) ([]domain.Tag, error)
}

// UserStorage определяет методы для взаимодействия с хранилищем пользователей
type UserStorage interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUsername(ctx context.Context, id uuid.UUID, username string) (*domain.User, error)
}

// HealthChecker проверяет доступность базы данных.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
