package domain

import "github.com/google/uuid"

// Tag представляет модель тега, соответствует таблице tags в бд.
// Справочные данные: создаются миграцией-сидом, через API только читаются.
type Tag struct {
	ID   int    `json:"id" db:"id" gorm:"primaryKey"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}

func (Tag) TableName() string {
	return "tags"
}

// CounterTag связующая модель Many-to-Many между Counter и Tag,
// соответствует таблице counter_tags в бд
type CounterTag struct {
	CounterID uuid.UUID `json:"counterId" db:"counter_id"`
	TagID     int       `json:"tagId" db:"tag_id"`
}

// CounterTagRow строка join-запроса counter_tags x tags.
type CounterTagRow struct {
	CounterID uuid.UUID `db:"counter_id"`
	Tag
}

// FlattenTags группирует строки join-таблицы по счётчику и отдаёт плоские теги.
func FlattenTags(rows []CounterTagRow) map[uuid.UUID][]Tag {
	out := make(map[uuid.UUID][]Tag, len(rows))
	for _, r := range rows {
		out[r.CounterID] = append(out[r.CounterID], r.Tag)
	}
	return out
}
