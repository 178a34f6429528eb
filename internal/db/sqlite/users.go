package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/placement-advisor/internal/db"
)

// CheckUsernameExists reports whether username is already registered.
func (s *Store) CheckUsernameExists(ctx context.Context, username string) (exists bool, err error) {
	defer db.Observe("check_username", time.Now(), &err)
	err = s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`,
		username,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

// CreateUser inserts a user and returns its ID.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash, role string) (id uuid.UUID, err error) {
	defer db.Observe("create_user", time.Now(), &err)
	if role == "" {
		role = db.RoleUser
	}
	id = uuid.New()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?)`,
		id.String(), username, passwordHash, role, now(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, db.ErrDuplicateUsername
		}
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// GetUser retrieves a user by ID. Returns nil, nil when not found.
func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (u *db.User, err error) {
	defer db.Observe("get_user", time.Now(), &err)
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, created_at FROM users WHERE id = ?`,
		id.String(),
	))
}

// GetUserByUsername retrieves a user by username. Returns nil, nil when not found.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (u *db.User, err error) {
	defer db.Observe("get_user_by_username", time.Now(), &err)
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, created_at FROM users WHERE username = ?`,
		username,
	))
}

func scanUser(row *sql.Row) (*db.User, error) {
	var u db.User
	var createdAt string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	u.CreatedAt = t
	return &u, nil
}

// UpdatePassword replaces a user's password hash.
func (s *Store) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) (err error) {
	defer db.Observe("update_password", time.Now(), &err)
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`,
		passwordHash, id.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

// DeleteUser removes a user along with their predictions and recommendation runs.
func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) (err error) {
	defer db.Observe("delete_user", time.Now(), &err)
	if _, err = s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// CountUsers returns the number of registered accounts.
func (s *Store) CountUsers(ctx context.Context) (n int, err error) {
	defer db.Observe("count_users", time.Now(), &err)
	if err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}
