package storage

import (
	"testing"

	"github.com/GoArmGo/DaySince/internal/domain"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestBuildPublicFilter(t *testing.T) {
	t.Run("base conditions only", func(t *testing.T) {
		where, args := buildPublicFilter(domain.PublicQuery{})
		assert.Equal(t, " WHERE c.is_private = FALSE AND c.archived_at IS NULL", where)
		assert.Empty(t, args)
	})

	t.Run("search is escaped", func(t *testing.T) {
		where, args := buildPublicFilter(domain.PublicQuery{Search: "100%_done"})
		assert.Contains(t, where, "(c.name ILIKE $1 OR c.description ILIKE $1)")
		assert.Equal(t, []any{`%100\%\_done%`}, args)
	})

	t.Run("tags use next placeholder", func(t *testing.T) {
		where, args := buildPublicFilter(domain.PublicQuery{Search: "run", TagSlugs: []string{"health", "fitness"}})
		assert.Contains(t, where, "t.slug = ANY($2)")
		assert.Len(t, args, 2)
		assert.Equal(t, pq.StringArray{"health", "fitness"}, args[1])
	})
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name string
		q    domain.PublicQuery
		want string
	}{
		{"created desc", domain.PublicQuery{SortBy: domain.SortByCreatedAt, SortOrder: domain.SortDesc}, " ORDER BY c.created_at DESC"},
		{"created asc", domain.PublicQuery{SortBy: domain.SortByCreatedAt, SortOrder: domain.SortAsc}, " ORDER BY c.created_at ASC"},
		{"name asc", domain.PublicQuery{SortBy: domain.SortByName, SortOrder: domain.SortAsc}, " ORDER BY c.name ASC, c.created_at DESC"},
		{"popularity desc", domain.PublicQuery{SortBy: domain.SortByPopularity, SortOrder: domain.SortDesc}, " ORDER BY c.view_count DESC, c.created_at DESC"},
		{"start date asc", domain.PublicQuery{SortBy: domain.SortByStartDate, SortOrder: domain.SortAsc}, " ORDER BY c.start_date ASC, c.created_at DESC"},
		{"unknown falls back", domain.PublicQuery{SortBy: "bogus"}, " ORDER BY c.created_at DESC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderClause(tt.q))
		})
	}
}
