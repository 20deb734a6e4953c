package usecase

import (
	"strings"

	"github.com/GoArmGo/DaySince/internal/apperr"
	"github.com/GoArmGo/DaySince/internal/domain"
)

const (
	defaultPublicPage  = 1
	defaultPublicLimit = 12
	maxPublicLimit     = 50
)

// PublicListOptions сырые параметры публичного списка; nil/пустые значения берут значения по умолчанию.
type PublicListOptions struct {
	Page      *int
	Limit     *int
	SortBy    string
	SortOrder string
	Search    string
	TagSlugs  []string
}

// BuildPublicQuery нормализует параметры: page >= 1, limit в [1, 50],
// сортировка только из разрешённых значений, теги в нижнем регистре без повторов.
func BuildPublicQuery(opts PublicListOptions) (domain.PublicQuery, error) {
	q := domain.PublicQuery{
		Page:      defaultPublicPage,
		Limit:     defaultPublicLimit,
		SortBy:    domain.SortByCreatedAt,
		SortOrder: domain.SortDesc,
		Search:    strings.TrimSpace(opts.Search),
	}

	if opts.Page != nil && *opts.Page > 1 {
		q.Page = *opts.Page
	}
	if opts.Limit != nil {
		q.Limit = min(max(*opts.Limit, 1), maxPublicLimit)
	}

	if opts.SortBy != "" {
		switch sortBy := domain.SortField(opts.SortBy); sortBy {
		case domain.SortByStartDate, domain.SortByCreatedAt, domain.SortByName, domain.SortByPopularity:
			q.SortBy = sortBy
		default:
			return domain.PublicQuery{}, apperr.ValidationWithDetails("invalid sort field",
				map[string]string{"sortBy": "must be one of: startDate createdAt name popularity"})
		}
	}

	if opts.SortOrder != "" {
		switch order := domain.SortOrder(strings.ToLower(opts.SortOrder)); order {
		case domain.SortAsc, domain.SortDesc:
			q.SortOrder = order
		default:
			return domain.PublicQuery{}, apperr.ValidationWithDetails("invalid sort order",
				map[string]string{"sortOrder": "must be one of: asc desc"})
		}
	}

	seen := make(map[string]struct{}, len(opts.TagSlugs))
	for _, raw := range opts.TagSlugs {
		slug := strings.ToLower(strings.TrimSpace(raw))
		if slug == "" {
			continue
		}
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		q.TagSlugs = append(q.TagSlugs, slug)
	}

	return q, nil
}
