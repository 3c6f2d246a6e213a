package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/lostfound/internal/apperr"
	"github.com/erazemk/lostfound/internal/model"
)

const userColumns = `id, email, password_hash, name, phone, is_admin, created_at`

// CreateUser creates a regular (non-admin) user. A duplicate email fails with
// an apperr.KindConflict error; the UNIQUE constraint is the authoritative
// check even when the caller looked the email up first.
func CreateUser(ctx context.Context, db *sql.DB, email, passwordHash, name, phone string) (*model.User, error) {
	return insertUser(ctx, db, email, passwordHash, name, phone, false)
}

// CreateAdmin creates a user with the admin flag set. It is used only when
// bootstrapping a new database.
func CreateAdmin(ctx context.Context, db *sql.DB, email, passwordHash, name string) (*model.User, error) {
	return insertUser(ctx, db, email, passwordHash, name, "", true)
}

func insertUser(ctx context.Context, db *sql.DB, email, passwordHash, name, phone string, isAdmin bool) (*model.User, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, name, phone, is_admin) VALUES (?, ?, ?, ?, ?)`,
		email, passwordHash, name, nullString(phone), isAdmin,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("user with this email already exists", err)
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	return FindUserByID(ctx, db, id)
}

// FindUserByID returns a user by ID.
func FindUserByID(ctx context.Context, db *sql.DB, id int64) (*model.User, error) {
	u, err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// FindUserByEmail returns a user by exact (case-sensitive) email.
func FindUserByEmail(ctx context.Context, db *sql.DB, email string) (*model.User, error) {
	u, err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return u, nil
}

// ListUsers returns all users, newest first.
func ListUsers(ctx context.Context, db *sql.DB) ([]model.User, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// DeleteUser deletes a user. Their items and messages, and messages about
// their items, are removed by cascade.
func DeleteUser(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func scanUser(row rowScanner) (*model.User, error) {
	u := &model.User{}
	var phone sql.NullString
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &phone, &u.IsAdmin, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Phone = phone.String
	return u, nil
}
