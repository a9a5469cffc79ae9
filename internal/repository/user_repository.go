package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/eternal-sentinels/es-archive/internal/model"
)

// UserRepo persists accounts.  Users are never deleted; deactivation goes
// through SetActive.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id, username, password_hash, clearance_level, is_active, is_admin, created_at"

func scanUser(s rowScanner) (*model.User, error) {
	var u model.User
	err := s.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.ClearanceLevel, &u.IsActive, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts u, assigning ID and CreatedAt.  The username is trimmed
// and a taken one yields ErrUsernameExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.ID = uuid.NewString()
	u.Username = strings.TrimSpace(u.Username)
	u.CreatedAt = now()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?,?,?,?,?,?,?)",
		u.ID, u.Username, u.PasswordHash, u.ClearanceLevel, u.IsActive, u.IsAdmin, u.CreatedAt)
	if err != nil {
		if isDuplicate(err) {
			return ErrUsernameExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindByUsername fetches a user by exact username.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, "username", strings.TrimSpace(username))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, "id", id)
}

func (r *UserRepo) findOne(ctx context.Context, column, value string) (*model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+column+" = ? LIMIT 1", value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// List returns every account, oldest first.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at, username")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// SetClearance changes a user's clearance level.
func (r *UserRepo) SetClearance(ctx context.Context, id string, level int) error {
	return r.updateOne(ctx, "UPDATE users SET clearance_level = ? WHERE id = ?", level, id)
}

// SetActive enables or disables an account.
func (r *UserRepo) SetActive(ctx context.Context, id string, active bool) error {
	return r.updateOne(ctx, "UPDATE users SET is_active = ? WHERE id = ?", active, id)
}

// updateOne runs a single-row update keyed by id.  MySQL reports zero
// affected rows when the value is unchanged, so a miss is confirmed with a
// lookup before returning ErrUserNotFound.
func (r *UserRepo) updateOne(ctx context.Context, q string, value any, id string) error {
	res, err := r.DB.ExecContext(ctx, q, value, id)
	if err != nil {
		return fmt.Errorf("update user %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	_, err = r.GetByID(ctx, id)
	return err
}
