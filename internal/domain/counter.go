package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	CounterNameMaxLen        = 100
	CounterDescriptionMaxLen = 500
	SlugMinLen               = 3
	SlugMaxLen               = 80
)

// Counter представляет счётчик "дней с момента", соответствует таблице counters в бд.
// ArchivedAt == nil означает активный счётчик.
type Counter struct {
	ID                    uuid.UUID  `json:"id" db:"id"`
	UserID                uuid.UUID  `json:"userId" db:"user_id"`
	Name                  string     `json:"name" db:"name"`
	Description           *string    `json:"description" db:"description"`
	StartDate             time.Time  `json:"startDate" db:"start_date"`
	ArchivedAt            *time.Time `json:"archivedAt" db:"archived_at"`
	IsPrivate             bool       `json:"isPrivate" db:"is_private"`
	ViewCount             int64      `json:"viewCount" db:"view_count"`
	Slug                  string     `json:"slug" db:"slug"`
	IsChallenge           bool       `json:"isChallenge" db:"is_challenge"`
	ChallengeDurationDays *int       `json:"challengeDurationDays" db:"challenge_duration_days"`
	ChallengeAchievedAt   *time.Time `json:"challengeAchievedAt" db:"challenge_achieved_at"`
	CreatedAt             time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt             time.Time  `json:"updatedAt" db:"updated_at"`

	Tags []Tag         `json:"tags" db:"-"`
	User *CounterOwner `json:"user,omitempty" db:"-"`
}

// CounterOwner публичная часть владельца, прикладывается к счётчику при выдаче.
type CounterOwner struct {
	Username string `json:"username"`
}

// IsArchived сообщает, архивирован ли счётчик.
func (c *Counter) IsArchived() bool {
	return c.ArchivedAt != nil
}

// TagIDs возвращает идентификаторы привязанных тегов.
func (c *Counter) TagIDs() []int {
	ids := make([]int, 0, len(c.Tags))
	for _, t := range c.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// MyCounters счётчики владельца, разделённые на активные и архивные.
type MyCounters struct {
	Active   []Counter `json:"active"`
	Archived []Counter `json:"archived"`
}

// PartitionByArchived делит счётчики, сохраняя исходный порядок в обеих частях.
func PartitionByArchived(counters []Counter) MyCounters {
	res := MyCounters{Active: []Counter{}, Archived: []Counter{}}
	for _, c := range counters {
		if c.IsArchived() {
			res.Archived = append(res.Archived, c)
		} else {
			res.Active = append(res.Active, c)
		}
	}
	return res
}
