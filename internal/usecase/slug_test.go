package usecase

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/GoArmGo/DaySince/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My Daily Run", "my-daily-run"},
		{"  Crème Brûlée!!  ", "creme-brulee"},
		{"Day #1: Quit smoking (again)", "day-1-quit-smoking-again"},
		{"user@example.com", "userexamplecom"},
		{"snake_case and   spaces", "snake-case-and-spaces"},
		{"", "untitled"},
		{"!!!", "untitled"},
		{"Go", "go-counter"},
		{"a.b", "ab-counter"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugify_LongInputIsCapped(t *testing.T) {
	s := Slugify(strings.Repeat("word ", 40))
	assert.LessOrEqual(t, len(s), slugBaseMaxLen)
	assert.False(t, strings.HasSuffix(s, "-"))
}

func TestSlugGenerator_Suffixes(t *testing.T) {
	store := newFakeCounterStorage()
	store.seed(domain.Counter{Slug: "morning-run"})
	store.seed(domain.Counter{Slug: "morning-run-2"})
	g := NewSlugGenerator(store)

	slug, err := g.Generate(context.Background(), "Morning Run", uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, "morning-run-3", slug)
}

func TestSlugGenerator_ExcludesOwnRecord(t *testing.T) {
	store := newFakeCounterStorage()
	own := store.seed(domain.Counter{Slug: "morning-run"})
	g := NewSlugGenerator(store)

	slug, err := g.Generate(context.Background(), "Morning Run", own.ID)
	require.NoError(t, err)
	assert.Equal(t, "morning-run", slug)
}

func TestSlugGenerator_FallsBackToTimestamp(t *testing.T) {
	store := newFakeCounterStorage()
	store.takenSlugs["ru-counter"] = true
	for i := 2; i <= maxSlugAttempts; i++ {
		store.takenSlugs["ru-counter-"+strconv.Itoa(i)] = true
	}
	at := time.UnixMilli(1_700_000_000_000)
	g := NewSlugGenerator(store)
	g.now = func() time.Time { return at }

	slug, err := g.Generate(context.Background(), "Ru", uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, "ru-counter-"+strconv.FormatInt(at.UnixMilli(), 36), slug)
}
