package userservice

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"
)

var (
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrDuplicateEmail    = errors.New("duplicate email")
	ErrNotFound          = errors.New("user not found")
)

func newUserModel(db *sql.DB) *DBModel {
	return &DBModel{db: db}
}

func uniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == constraint
}

func (m *DBModel) insertUser(tx *sql.Tx, ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (username, email, password)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version`

	args := []any{
		u.Username,
		u.Email,
		u.Password.hash,
	}

	err := tx.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.CreatedAt, &u.Version)
	if err != nil {
		switch {
		case uniqueViolation(err, "users_username_key"):
			return ErrDuplicateUsername
		case uniqueViolation(err, "users_email_key"):
			return ErrDuplicateEmail
		default:
			return err
		}
	}

	return nil
}

// getUserByLogin looks a user up by email when login contains an @, by username otherwise.
func (m *DBModel) getUserByLogin(ctx context.Context, login string) (*User, error) {
	column := "username"
	if strings.Contains(login, "@") {
		column = "email"
	}

	query := `
		SELECT id, username, email, password, created_at, version
		FROM users
		WHERE ` + column + ` = $1`

	var u User

	err := m.db.QueryRowContext(ctx, query, login).Scan(&u.ID, &u.Username, &u.Email, &u.Password.hash, &u.CreatedAt, &u.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *DBModel) updateUserPassword(ctx context.Context, pwd Password, id int, version int) error {
	query := `
		UPDATE users
		SET password = $1, updated_at = NOW(), version = version + 1
		WHERE id = $2 AND version = $3`

	_, err := m.db.ExecContext(ctx, query, pwd.hash, id, version)
	return err
}
