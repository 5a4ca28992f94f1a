package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ErrUserNotFound is returned when a lookup by id matches no row.
var ErrUserNotFound = errors.New("storage: user not found")

// User is a registered bot user.
type User struct {
	UserID   int64  `db:"user_id"`
	Username string `db:"username"`
	Name     string `db:"name"`
}

// Users is the Postgres-backed user registry.
type Users struct {
	db *sqlx.DB
}

// NewUsers constructs the users repository.
func NewUsers(db *sqlx.DB) *Users {
	return &Users{db: db}
}

// Insert registers a user if absent. Re-registering an existing id is a
// no-op: the first write wins, matching INSERT OR IGNORE semantics.
func (r *Users) Insert(ctx context.Context, u User) error {
	const q = `
		INSERT INTO users (user_id, username, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, q, u.UserID, u.Username, u.Name); err != nil {
		return fmt.Errorf("insert user %d: %w", u.UserID, err)
	}
	return nil
}

// GetByID returns the user with the given id.
func (r *Users) GetByID(ctx context.Context, id int64) (User, error) {
	const q = `SELECT user_id, username, name FROM users WHERE user_id = $1`
	var u User
	if err := r.db.GetContext(ctx, &u, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

// ListAll returns every registered user ordered by id.
func (r *Users) ListAll(ctx context.Context) ([]User, error) {
	const q = `SELECT user_id, username, name FROM users ORDER BY user_id`
	var users []User
	if err := r.db.SelectContext(ctx, &users, q); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
