package storage

import (
	"fmt"
	"strings"

	"github.com/GoArmGo/DaySince/internal/domain"
	"github.com/lib/pq"
)

var sortColumns = map[domain.SortField]string{
	domain.SortByStartDate:  "c.start_date",
	domain.SortByCreatedAt:  "c.created_at",
	domain.SortByName:       "c.name",
	domain.SortByPopularity: "c.view_count",
}

// buildPublicFilter собирает WHERE для публичного списка.
// Фильтр по тегам: счётчик подходит, если у него есть хотя бы один из тегов.
func buildPublicFilter(q domain.PublicQuery) (string, []any) {
	conds := []string{"c.is_private = FALSE", "c.archived_at IS NULL"}
	var args []any

	if q.Search != "" {
		args = append(args, "%"+escapeLike(q.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(c.name ILIKE $%d OR c.description ILIKE $%d)", n, n))
	}

	if len(q.TagSlugs) > 0 {
		args = append(args, pq.StringArray(q.TagSlugs))
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM counter_tags ct JOIN tags t ON t.id = ct.tag_id WHERE ct.counter_id = c.id AND t.slug = ANY($%d))",
			len(args)))
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderClause строится только из белого списка колонок, пользовательский ввод в SQL не попадает.
func orderClause(q domain.PublicQuery) string {
	col, ok := sortColumns[q.SortBy]
	if !ok {
		col = sortColumns[domain.SortByCreatedAt]
	}
	dir := "DESC"
	if q.SortOrder == domain.SortAsc {
		dir = "ASC"
	}

	clause := " ORDER BY " + col + " " + dir
	if col != sortColumns[domain.SortByCreatedAt] {
		clause += ", c.created_at DESC"
	}
	return clause
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
