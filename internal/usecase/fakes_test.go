package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/GoArmGo/DaySince/internal/apperr"
	"github.com/GoArmGo/DaySince/internal/domain"
	"github.com/google/uuid"
)

// fakeCounterStorage in-memory реализация ports.CounterStorage для тестов.
type fakeCounterStorage struct {
	mu       sync.Mutex
	counters map[uuid.UUID]domain.Counter
	links    map[uuid.UUID][]int
	tags     map[int]domain.Tag
	seq      int

	writes       []string
	views        map[uuid.UUID]int
	incrementErr error
	publicQuery  domain.PublicQuery
	publicPage   domain.PublicPage
	takenSlugs   map[string]bool
}

func newFakeCounterStorage() *fakeCounterStorage {
	return &fakeCounterStorage{
		counters: map[uuid.UUID]domain.Counter{},
		links:    map[uuid.UUID][]int{},
		tags: map[int]domain.Tag{
			1: {ID: 1, Name: "Health", Slug: "health"},
			2: {ID: 2, Name: "Habits", Slug: "habits"},
			3: {ID: 3, Name: "Fitness", Slug: "fitness"},
		},
		views:      map[uuid.UUID]int{},
		takenSlugs: map[string]bool{},
	}
}

// seed кладёт счётчик напрямую, минуя use case.
func (f *fakeCounterStorage) seed(c domain.Counter, tagIDs ...int) domain.Counter {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.seq++
	c.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.seq) * time.Minute)
	f.counters[c.ID] = c
	f.links[c.ID] = append([]int(nil), tagIDs...)
	return f.withTags(c)
}

func (f *fakeCounterStorage) withTags(c domain.Counter) domain.Counter {
	c.Tags = []domain.Tag{}
	for _, id := range f.links[c.ID] {
		c.Tags = append(c.Tags, f.tags[id])
	}
	sort.Slice(c.Tags, func(i, j int) bool { return c.Tags[i].Name < c.Tags[j].Name })
	return c
}

func (f *fakeCounterStorage) slugTaken(slug string, exclude uuid.UUID) bool {
	if f.takenSlugs[slug] {
		return true
	}
	for id, c := range f.counters {
		if c.Slug == slug && id != exclude {
			return true
		}
	}
	return false
}

func (f *fakeCounterStorage) setTags(id uuid.UUID, tagIDs []int) error {
	seen := map[int]bool{}
	var ids []int
	for _, t := range tagIDs {
		if _, ok := f.tags[t]; !ok {
			return apperr.Validation("one or more tags do not exist")
		}
		if !seen[t] {
			seen[t] = true
			ids = append(ids, t)
		}
	}
	f.links[id] = ids
	return nil
}

func (f *fakeCounterStorage) CreateCounter(_ context.Context, c *domain.Counter, tagIDs []int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, "create")
	if f.slugTaken(c.Slug, uuid.Nil) {
		return apperr.Conflict("slug is already taken")
	}
	if err := f.setTags(c.ID, tagIDs); err != nil {
		return err
	}
	f.seq++
	c.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.seq) * time.Minute)
	c.UpdatedAt = c.CreatedAt
	f.counters[c.ID] = *c
	c.Tags = f.withTags(*c).Tags
	return nil
}

func (f *fakeCounterStorage) GetCounterByID(_ context.Context, id uuid.UUID) (*domain.Counter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.counters[id]
	if !ok {
		return nil, nil
	}
	c = f.withTags(c)
	return &c, nil
}

func (f *fakeCounterStorage) GetCounterBySlug(_ context.Context, slug string) (*domain.Counter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.counters {
		if c.Slug == slug {
			c = f.withTags(c)
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCounterStorage) SlugExists(_ context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.slugTaken(slug, excludeID), nil
}

func (f *fakeCounterStorage) ListCountersByOwner(_ context.Context, ownerID uuid.UUID) ([]domain.Counter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Counter
	for _, c := range f.counters {
		if c.UserID == ownerID {
			out = append(out, f.withTags(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeCounterStorage) UpdateCounter(_ context.Context, c *domain.Counter, tagIDs *[]int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, "update")
	if _, ok := f.counters[c.ID]; !ok {
		return apperr.NotFound("counter not found")
	}
	if f.slugTaken(c.Slug, c.ID) {
		return apperr.Conflict("slug is already taken")
	}
	if tagIDs != nil {
		if err := f.setTags(c.ID, *tagIDs); err != nil {
			return err
		}
	}
	f.counters[c.ID] = *c
	c.Tags = f.withTags(*c).Tags
	return nil
}

func (f *fakeCounterStorage) DeleteCounter(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, "delete")
	if _, ok := f.counters[id]; !ok {
		return apperr.NotFound("counter not found")
	}
	delete(f.counters, id)
	delete(f.links, id)
	return nil
}

func (f *fakeCounterStorage) IncrementViewCount(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.incrementErr != nil {
		f.views[id] = -1
		return f.incrementErr
	}
	f.views[id]++
	return nil
}

func (f *fakeCounterStorage) ListPublicCounters(_ context.Context, q domain.PublicQuery) (domain.PublicPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.publicQuery = q
	return f.publicPage, nil
}

func (f *fakeCounterStorage) viewCalls(id uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.views[id]
}

func (f *fakeCounterStorage) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}

// fakeUserStorage in-memory реализация ports.UserStorage.
type fakeUserStorage struct {
	mu    sync.Mutex
	users map[uuid.UUID]domain.User
	err   error
}

func newFakeUserStorage() *fakeUserStorage {
	return &fakeUserStorage{users: map[uuid.UUID]domain.User{}}
}

func (f *fakeUserStorage) CreateUser(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return apperr.Conflict("email is already registered")
		}
		if strings.EqualFold(existing.Username, u.Username) {
			return apperr.Conflict("username is already taken")
		}
	}
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserStorage) GetUserByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeUserStorage) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStorage) UpdateUsername(_ context.Context, id uuid.UUID, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	for otherID, other := range f.users {
		if otherID != id && other.Username == username {
			return nil, apperr.Conflict("username is already taken")
		}
	}
	u.Username = username
	f.users[id] = u
	return &u, nil
}

// fakeTagStorage
type fakeTagStorage struct {
	tags []domain.Tag
	err  error
}

func (f *fakeTagStorage) ListTags(context.Context) ([]domain.Tag, error) {
	return f.tags, f.err
}

var errStorageDown = errors.New("storage down")
