package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/GoArmGo/DaySince/internal/apperr"
	"github.com/GoArmGo/DaySince/internal/domain"
	"github.com/GoArmGo/DaySince/internal/logger"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var userCols = []string{"id", "email", "username", "password_hash", "google_id", "name", "avatar_url", "created_at", "updated_at"}

func newGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })

	db, err := NewGormDB(raw, logger.Discard())
	require.NoError(t, err)
	return db, mock
}

func TestGormTagStorage_ListTags(t *testing.T) {
	db, mock := newGorm(t)
	s := NewGormTagStorage(db, logger.Discard())

	mock.ExpectQuery(`SELECT \* FROM "tags" ORDER BY name ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}).
			AddRow(int64(3), "Fitness", "fitness").
			AddRow(int64(1), "Health", "health"))

	tags, err := s.ListTags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Tag{
		{ID: 3, Name: "Fitness", Slug: "fitness"},
		{ID: 1, Name: "Health", Slug: "health"},
	}, tags)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTagStorage_ListTags_Empty(t *testing.T) {
	db, mock := newGorm(t)
	s := NewGormTagStorage(db, logger.Discard())

	mock.ExpectQuery(`SELECT \* FROM "tags"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}))

	tags, err := s.ListTags(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tags)
	assert.Empty(t, tags)
}

func TestGormUserStorage_GetUserByID(t *testing.T) {
	db, mock := newGorm(t)
	s := NewGormUserStorage(db, logger.Discard())
	id := uuid.New()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(id.String(), "runner@example.com", "runner", nil, nil, "Runner", nil, now, now))

	user, err := s.GetUserByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "runner", user.Username)
	require.NotNil(t, user.Name)
	assert.Equal(t, "Runner", *user.Name)
	assert.Nil(t, user.PasswordHash)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserStorage_GetUserByEmail_NotFound(t *testing.T) {
	db, mock := newGorm(t)
	s := NewGormUserStorage(db, logger.Discard())

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows(userCols))

	user, err := s.GetUserByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserStorage_UpdateUsername(t *testing.T) {
	db, mock := newGorm(t)
	s := NewGormUserStorage(db, logger.Discard())
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(id.String(), "runner@example.com", "new_name", nil, nil, nil, nil, now, now))

	user, err := s.UpdateUsername(context.Background(), id, "new_name")
	require.NoError(t, err)
	assert.Equal(t, "new_name", user.Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserStorage_UpdateUsername_Taken(t *testing.T) {
	db, mock := newGorm(t)
	s := NewGormUserStorage(db, logger.Discard())

	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

	_, err := s.UpdateUsername(context.Background(), uuid.New(), "taken")
	assert.ErrorIs(t, err, apperr.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserStorage_UpdateUsername_Missing(t *testing.T) {
	db, mock := newGorm(t)
	s := NewGormUserStorage(db, logger.Discard())

	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := s.UpdateUsername(context.Background(), uuid.New(), "ghost")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestTranslateUserError(t *testing.T) {
	err := translateUserError("create user", &pq.Error{Code: "23505", Constraint: "users_email_key"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	err = translateUserError("create user", &pq.Error{Code: "23502", Column: "email"})
	assert.Equal(t, apperr.CodeInternal, apperr.CodeOf(err))
}
