package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evo/internal/model"
	"evo/internal/repository"
)

var userRowColumns = []string{"id", "name", "email", "password_hash", "role", "created_at", "updated_at"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestUserPostgres_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	u := &model.User{
		ID:           "user-1",
		Name:         "Ana",
		Email:        "ana@example.com",
		PasswordHash: "hash",
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Create(ctx, u))
	})

	t.Run("duplicate email", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"})

		err := repo.Create(ctx, u)
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_FindByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(userRowColumns).
			AddRow("user-1", "Ana", "ana@example.com", "hash", "admin", time.Now(), time.Now())
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = ?").
			WithArgs("user-1").
			WillReturnRows(rows)

		u, err := repo.FindByID(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "user-1", u.ID)
		assert.True(t, u.IsAdmin())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		u, err := repo.FindByID(ctx, "missing")
		assert.Nil(t, u)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_FindByEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserPostgres(db)

	rows := sqlmock.NewRows(userRowColumns).
		AddRow("user-1", "Ana", "ana@example.com", "hash", "user", time.Now(), time.Now())
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE lower\(email\) = lower\(\$1\)`).
		WithArgs("ANA@example.com").
		WillReturnRows(rows)

	u, err := repo.FindByEmail(context.Background(), "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_List(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		rows := sqlmock.NewRows(userRowColumns).
			AddRow("user-2", "Bo", "bo@example.com", "h2", "user", time.Now(), time.Now()).
			AddRow("user-1", "Ana", "ana@example.com", "h1", "admin", time.Now(), time.Now())
		mock.ExpectQuery("SELECT (.+) FROM users ORDER BY created_at DESC").
			WithArgs(10, 0).
			WillReturnRows(rows)

		res, err := repo.List(ctx, repository.PageQuery{Limit: 10, Offset: 0})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Total)
		require.Len(t, res.Items, 2)
		assert.Equal(t, "user-2", res.Items[0].ID)
	})

	t.Run("count error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
			WillReturnError(errors.New("db down"))

		res, err := repo.List(ctx, repository.PageQuery{Limit: 10})
		assert.Nil(t, res)
		assert.EqualError(t, err, "db down")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_Update(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserPostgres(db)
	ctx := context.Background()
	u := &model.User{ID: "user-1", Name: "Ana", Email: "ana@example.com", PasswordHash: "h", Role: "user", UpdatedAt: time.Now()}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").
			WithArgs(u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, repo.Update(ctx, u))
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, repo.Update(ctx, u), repository.ErrNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").WillReturnError(&pgconn.PgError{Code: "23505"})
		assert.ErrorIs(t, repo.Update(ctx, u), repository.ErrDuplicate)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_Delete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM users WHERE id = ?").
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(ctx, "user-1"))

	mock.ExpectExec("DELETE FROM users WHERE id = ?").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(ctx, "missing"), repository.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(sql.ErrNoRows), repository.ErrNotFound)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23505"}), repository.ErrDuplicate)

	other := &pgconn.PgError{Code: "23503"}
	assert.Equal(t, error(other), translate(other))
}
