package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/GoArmGo/DaySince/internal/core/ports"
	"github.com/GoArmGo/DaySince/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	slugBaseMaxLen  = 70
	maxSlugAttempts = 10
	fallbackSlug    = "untitled"
	shortSlugSuffix = "-counter"
)

var (
	slugStripRe = regexp.MustCompile(`[*+~.()'"!:@]`)
	slugSepRe   = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify превращает произвольный текст в slug: латиница без диакритики,
// нижний регистр, слова через дефис. Пустой результат даёт "untitled".
func Slugify(source string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, source)
	if err != nil {
		s = source
	}

	s = strings.ToLower(s)
	s = slugStripRe.ReplaceAllString(s, "")
	s = slugSepRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > slugBaseMaxLen {
		s = strings.TrimRight(s[:slugBaseMaxLen], "-")
	}
	if s == "" {
		return fallbackSlug
	}
	if len(s) < domain.SlugMinLen {
		s += shortSlugSuffix
	}
	return s
}

// SlugGenerator подбирает свободный slug. Проверка не резервирует значение:
// окончательно уникальность обеспечивает ограничение counters_slug_key.
type SlugGenerator struct {
	counters ports.CounterStorage
	now      func() time.Time
}

func NewSlugGenerator(counters ports.CounterStorage) *SlugGenerator {
	return &SlugGenerator{counters: counters, now: time.Now}
}

// Generate возвращает slug из source, свободный среди счётчиков кроме excludeID.
// После maxSlugAttempts занятых вариантов к базе добавляется метка времени в base36.
func (g *SlugGenerator) Generate(ctx context.Context, source string, excludeID uuid.UUID) (string, error) {
	base := Slugify(source)

	candidate := base
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		if attempt > 1 {
			candidate = fmt.Sprintf("%s-%d", base, attempt)
		}

		taken, err := g.counters.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("usecase: check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}

	return base + "-" + strconv.FormatInt(g.now().UnixMilli(), 36), nil
}
