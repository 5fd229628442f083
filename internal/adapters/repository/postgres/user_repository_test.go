package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/estate/internal/core/domain"
)

func newUserRepoWithMock(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewUserRepository(db).(*UserRepository), mock
}

var born = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

func TestUserRepository_Create(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`(?s)^\s*INSERT\s+INTO\s+users\s*\(email,\s*password_hash,\s*nom,\s*prenom,\s*date_de_naissance\).*RETURNING\s+id,\s*created_at\s*$`).
		WithArgs("a@x.com", "hash", "A", "B", born).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), created))

	u := &domain.User{Email: "a@x.com", PasswordHash: "hash", LastName: "A", FirstName: "B", BirthDate: born}
	require.NoError(t, repo.Create(context.Background(), u))

	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, created, u.CreatedAt)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnError(&pq.Error{Code: uniqueViolation, Message: "duplicate key value violates unique constraint"})

	err := repo.Create(context.Background(), &domain.User{Email: "a@x.com"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestUserRepository_Create_DBError(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &domain.User{Email: "a@x.com"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "db down")
}

func TestUserRepository_GetByEmail(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "nom", "prenom", "date_de_naissance", "created_at"}).
		AddRow(int64(3), "a@x.com", "hash", "A", "B", born, born)
	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*email,\s*password_hash,.*FROM\s+users\s+WHERE\s+email\s*=\s*\$1$`).
		WithArgs("a@x.com").
		WillReturnRows(rows)

	u, err := repo.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, &domain.User{
		ID:           3,
		Email:        "a@x.com",
		PasswordHash: "hash",
		LastName:     "A",
		FirstName:    "B",
		BirthDate:    born,
		CreatedAt:    born,
	}, u)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_Update(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectExec(`^UPDATE\s+users\s+SET\s+nom\s*=\s*\$1,\s*prenom\s*=\s*\$2,\s*date_de_naissance\s*=\s*\$3\s+WHERE\s+id\s*=\s*\$4$`).
		WithArgs("A", "Zoe", born, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^UPDATE\s+users`).
		WithArgs("A", "Zoe", born, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	u := &domain.User{ID: 3, LastName: "A", FirstName: "Zoe", BirthDate: born}
	require.NoError(t, repo.Update(context.Background(), u))

	u.ID = 4
	assert.ErrorIs(t, repo.Update(context.Background(), u), domain.ErrUserNotFound)
}

func TestUserRepository_Delete(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectExec(`^DELETE\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^DELETE\s+FROM\s+users`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`^DELETE\s+FROM\s+users`).
		WithArgs(int64(3)).
		WillReturnError(errors.New("db down"))

	require.NoError(t, repo.Delete(context.Background(), 3))
	assert.ErrorIs(t, repo.Delete(context.Background(), 3), domain.ErrUserNotFound)
	assert.ErrorContains(t, repo.Delete(context.Background(), 3), "db down")
}

func TestEnsureUserSchema(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE\s+TABLE\s+IF\s+NOT\s+EXISTS\s+users`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, EnsureUserSchema(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
