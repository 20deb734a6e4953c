package domain

// SortField поле сортировки публичного списка.
type SortField string

const (
	SortByStartDate  SortField = "startDate"
	SortByCreatedAt  SortField = "createdAt"
	SortByName       SortField = "name"
	SortByPopularity SortField = "popularity"
)

// SortOrder направление сортировки.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// PublicQuery нормализованные параметры публичного списка счётчиков.
// TagSlugs фильтрует по принципу "хотя бы один тег из списка".
type PublicQuery struct {
	Page      int
	Limit     int
	SortBy    SortField
	SortOrder SortOrder
	Search    string
	TagSlugs  []string
}

// Offset смещение страницы.
func (q PublicQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// PublicPage страница публичного списка.
type PublicPage struct {
	Items       []Counter `json:"items"`
	TotalItems  int       `json:"totalItems"`
	TotalPages  int       `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
}

// NewPublicPage собирает страницу; totalPages = ceil(total / limit).
func NewPublicPage(items []Counter, total int, q PublicQuery) PublicPage {
	if items == nil {
		items = []Counter{}
	}
	pages := 0
	if q.Limit > 0 {
		pages = (total + q.Limit - 1) / q.Limit
	}
	return PublicPage{
		Items:       items,
		TotalItems:  total,
		TotalPages:  pages,
		CurrentPage: q.Page,
	}
}
