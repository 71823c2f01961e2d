package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"bimeh/internal/domain/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *gorm.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	return db, mock, gormDB
}

func userRows(id uuid.UUID, nationalID string) *sqlmock.Rows {
	now := time.Now()

	return sqlmock.NewRows([]string{
		"id", "national_id", "first_name", "last_name", "email", "phone",
		"password_hash", "is_active", "is_staff", "is_admin", "created_at", "updated_at",
	}).AddRow(
		id, nationalID, "سارا", "محمدی", "sara@example.com", "09121234567",
		"$2a$10$hash", true, false, false, now, now,
	)
}

func TestUserRepository_FindByID(t *testing.T) {
	db, mock, gormDB := setupMockDB(t)
	defer db.Close()

	repo := NewUserRepository(gormDB)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(userRows(userID, "1234567890"))

	user, err := repo.FindByID(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "1234567890", user.NationalID)
	assert.Equal(t, "سارا محمدی", user.FullName())
	assert.True(t, user.IsActive)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByNationalID_NotFound(t *testing.T) {
	db, mock, gormDB := setupMockDB(t)
	defer db.Close()

	repo := NewUserRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	user, err := repo.FindByNationalID(context.Background(), "0000000000")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_List(t *testing.T) {
	db, mock, gormDB := setupMockDB(t)
	defer db.Close()

	repo := NewUserRepository(gormDB)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(userRows(uuid.New(), "1234567890"))

	users, total, err := repo.List(context.Background(), repository.UserFilter{Limit: 1})

	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, users, 1)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenRepository_DeleteByTokenHash(t *testing.T) {
	db, mock, gormDB := setupMockDB(t)
	defer db.Close()

	repo := NewRefreshTokenRepository(gormDB)

	mock.ExpectExec(`DELETE FROM "refresh_tokens"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.DeleteByTokenHash(context.Background(), "deadbeef")

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenRepository_DeleteByTokenHash_NotFound(t *testing.T) {
	db, mock, gormDB := setupMockDB(t)
	defer db.Close()

	repo := NewRefreshTokenRepository(gormDB)

	mock.ExpectExec(`DELETE FROM "refresh_tokens"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteByTokenHash(context.Background(), "deadbeef")

	assert.ErrorIs(t, err, repository.ErrRefreshTokenNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
