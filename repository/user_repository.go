package repository

import (
	"database/sql"
	"sentinel-api/model"
)

// IUserRepository defines the contract for user record persistence.
type IUserRepository interface {
	GetByID(id string) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	GetByUsername(username string) (*model.User, error)
	GetByResetToken(token string) (*model.User, error)
	ExistsByEmail(email string) (bool, error)
	ExistsByUsername(username string) (bool, error)
	Create(user *model.User) error
	Update(user *model.User) error
	Delete(id string) error
}

// UserRepository implements IUserRepository on postgres.
type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, username, email, password_hash, profile_picture_url, reset_token, created_at, updated_at`

func (r *UserRepository) scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	var profilePicture, resetToken sql.NullString
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&profilePicture, &resetToken, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	user.ProfilePictureURL = profilePicture.String
	user.ResetToken = resetToken.String
	return user, nil
}

func (r *UserRepository) GetByID(id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.DB.QueryRow(query, id))
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.DB.QueryRow(query, email))
}

func (r *UserRepository) GetByUsername(username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.scanUser(r.DB.QueryRow(query, username))
}

func (r *UserRepository) GetByResetToken(token string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE reset_token = $1`
	return r.scanUser(r.DB.QueryRow(query, token))
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	err := r.DB.QueryRow(query, email).Scan(&exists)
	return exists, err
}

func (r *UserRepository) ExistsByUsername(username string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	err := r.DB.QueryRow(query, username).Scan(&exists)
	return exists, err
}

func (r *UserRepository) Create(user *model.User) error {
	query := `INSERT INTO users (id, username, email, password_hash, profile_picture_url)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`
	return r.DB.QueryRow(query, user.ID, user.Username, user.Email, user.PasswordHash,
		nullable(user.ProfilePictureURL)).Scan(&user.CreatedAt, &user.UpdatedAt)
}

// Update persists the mutable fields of the user row.
func (r *UserRepository) Update(user *model.User) error {
	query := `UPDATE users
		SET username = $2, password_hash = $3, profile_picture_url = $4, reset_token = $5, updated_at = NOW()
		WHERE id = $1 RETURNING updated_at`
	return r.DB.QueryRow(query, user.ID, user.Username, user.PasswordHash,
		nullable(user.ProfilePictureURL), nullable(user.ResetToken)).Scan(&user.UpdatedAt)
}

func (r *UserRepository) Delete(id string) error {
	query := `DELETE FROM users WHERE id = $1`
	result, err := r.DB.Exec(query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// nullable maps the empty string to SQL NULL.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
