// Package dberr распознаёт нарушения ограничений PostgreSQL из ошибок lib/pq.
package dberr

import (
	"errors"

	"github.com/lib/pq"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Имена ограничений из миграций.
const (
	CounterSlugKey    = "counters_slug_key"
	CounterTagTagFKey = "counter_tags_tag_id_fkey"
	UserUsernameKey   = "users_username_key"
	UserEmailKey      = "users_email_key"
	UserGoogleIDKey   = "users_google_id_key"
)

// UniqueViolation сообщает, является ли err нарушением уникальности, и какое ограничение сработало.
func UniqueViolation(err error) (string, bool) {
	return violation(err, codeUniqueViolation)
}

// ForeignKeyViolation сообщает, является ли err нарушением внешнего ключа, и какое ограничение сработало.
func ForeignKeyViolation(err error) (string, bool) {
	return violation(err, codeForeignKeyViolation)
}

func violation(err error, code pq.ErrorCode) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == code {
		return pqErr.Constraint, true
	}
	return "", false
}
