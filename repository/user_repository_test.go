package repository

import (
	"database/sql"
	"regexp"
	"sentinel-api/model"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepository(db), mock
}

func userRows(u *model.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "password_hash",
		"profile_picture_url", "reset_token", "created_at", "updated_at"}).
		AddRow(u.ID, u.Username, u.Email, u.PasswordHash,
			sql.NullString{String: u.ProfilePictureURL, Valid: u.ProfilePictureURL != ""},
			sql.NullString{String: u.ResetToken, Valid: u.ResetToken != ""},
			u.CreatedAt, u.UpdatedAt)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()
	expected := &model.User{
		ID: "u-1", Username: "alice", Email: "a@x.com",
		PasswordHash: "hash", CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+userColumns+` FROM users WHERE email = $1`)).
		WithArgs("a@x.com").
		WillReturnRows(userRows(expected))

	user, err := repo.GetByEmail("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, expected.ID, user.ID)
	assert.Equal(t, expected.Username, user.Username)
	assert.Empty(t, user.ResetToken, "NULL reset_token must scan to empty string")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+userColumns+` FROM users WHERE email = $1`)).
		WithArgs("missing@x.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail("missing@x.com")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserRepository_GetByResetToken(t *testing.T) {
	repo, mock := newMockRepo(t)
	expected := &model.User{ID: "u-2", Username: "bob", Email: "b@x.com",
		PasswordHash: "hash", ResetToken: "tok-123"}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+userColumns+` FROM users WHERE reset_token = $1`)).
		WithArgs("tok-123").
		WillReturnRows(userRows(expected))

	user, err := repo.GetByResetToken("tok-123")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", user.ResetToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`)).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByEmail("a@x.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)
	user := &model.User{ID: "u-3", Username: "carol", Email: "c@x.com", PasswordHash: "hash"}
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (id, username, email, password_hash, profile_picture_url)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`)).
		WithArgs(user.ID, user.Username, user.Email, user.PasswordHash, sql.NullString{}).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, repo.Create(user))
	assert.Equal(t, now, user.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update(t *testing.T) {
	repo, mock := newMockRepo(t)
	user := &model.User{ID: "u-4", Username: "dave", Email: "d@x.com",
		PasswordHash: "hash", ResetToken: "tok-9"}
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users
		SET username = $2, password_hash = $3, profile_picture_url = $4, reset_token = $5, updated_at = NOW()
		WHERE id = $1 RETURNING updated_at`)).
		WithArgs(user.ID, user.Username, user.PasswordHash, sql.NullString{},
			sql.NullString{String: "tok-9", Valid: true}).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

	require.NoError(t, repo.Update(user))
	assert.Equal(t, now, user.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
		WithArgs("u-5").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete("u-5"))
}

func TestUserRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete("missing"), sql.ErrNoRows)
}
