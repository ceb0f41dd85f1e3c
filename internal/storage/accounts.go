package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"saldo/internal/core"
)

// CreateUser inserts a user row. It returns false, without error, when the
// username is already taken.
func (r *SQLiteRepository) CreateUser(ctx context.Context, username, password string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password) VALUES (?, ?) ON CONFLICT(username) DO NOTHING`,
		username, password)
	if err != nil {
		return false, fmt.Errorf("insert user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		slog.DebugContext(ctx, "Username already registered", "username", username)
		return false, nil
	}

	slog.InfoContext(ctx, "User saved to SQLite", "username", username)
	return true, nil
}

// GetUserByUsername looks up a user by exact, case-sensitive username.
func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (*core.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var u core.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password FROM users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return &u, nil
}

