package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"minbar/internal/logger"
	"minbar/internal/models"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, name, password_hash, role, reset_token, reset_token_expiry, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.Role,
		&u.ResetToken,
		&u.ResetTokenExpiry,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts u and fills in its id and timestamps.
// A taken email yields ErrDuplicate.
func (r *UserRepository) CreateUser(ctx context.Context, u *models.User) error {
	logger.Log.Info("Creating user (repo)", zap.String("email", u.Email))
	query := `
	INSERT INTO users (email, name, password_hash, role)
	VALUES ($1, $2, $3, $4)
	RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query, u.Email, u.Name, u.PasswordHash, u.Role).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		logger.Log.Error("Failed to create user (repo)", zap.Error(err))
	}
	return err
}

func (r *UserRepository) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	logger.Log.Debug("Checking email uniqueness (repo)", zap.String("email", email))
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		logger.Log.Error("Failed to check email (repo)", zap.Error(err))
	}
	return exists, err
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	return u, notFound(err)
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		logger.Log.Error("Failed to get user by id (repo)", zap.Int64("user_id", id), zap.Error(err))
	}
	return u, notFound(err)
}

// FindByResetToken returns the holder of an unexpired reset token hash.
func (r *UserRepository) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
	WHERE reset_token = $1 AND reset_token_expiry > $2`
	u, err := scanUser(r.db.QueryRow(ctx, query, tokenHash, now))
	return u, notFound(err)
}

// UpdateUserFields applies the non-nil fields of input.
func (r *UserRepository) UpdateUserFields(ctx context.Context, id int64, input *models.UpdateUserRequest, now time.Time) error {
	logger.Log.Info("Updating user (repo)", zap.Int64("user_id", id))
	query := `UPDATE users SET`
	var args []any
	argNum := 1

	if input.Name != nil {
		query += fmt.Sprintf(" name = $%d,", argNum)
		args = append(args, *input.Name)
		argNum++
	}
	if input.Email != nil {
		query += fmt.Sprintf(" email = $%d,", argNum)
		args = append(args, *input.Email)
		argNum++
	}
	if input.PasswordHash != nil {
		query += fmt.Sprintf(" password_hash = $%d,", argNum)
		args = append(args, *input.PasswordHash)
		argNum++
	}

	if len(args) == 0 {
		logger.Log.Warn("Nothing to update (repo)", zap.Int64("user_id", id))
		return nil
	}

	query += fmt.Sprintf(" updated_at = $%d WHERE id = $%d", argNum, argNum+1)
	args = append(args, now, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		logger.Log.Error("Failed to update user (repo)", zap.Error(err), zap.Int64("user_id", id))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetResetToken replaces any previous token of the user.
func (r *UserRepository) SetResetToken(ctx context.Context, id int64, tokenHash string, expiry, now time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET reset_token = $1, reset_token_expiry = $2, updated_at = $3 WHERE id = $4`,
		tokenHash, expiry, now, id,
	)
	if err != nil {
		logger.Log.Error("Failed to store reset token (repo)", zap.Error(err), zap.Int64("user_id", id))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearResetTokenIf clears the token only while it still equals tokenHash,
// so a newer token issued concurrently is left alone.
func (r *UserRepository) ClearResetTokenIf(ctx context.Context, id int64, tokenHash string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET reset_token = NULL, reset_token_expiry = NULL WHERE id = $1 AND reset_token = $2`,
		id, tokenHash,
	)
	if err != nil {
		logger.Log.Error("Failed to clear reset token (repo)", zap.Error(err), zap.Int64("user_id", id))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// RedeemResetToken sets the new password hash and consumes the token in one
// statement. Of two concurrent redemptions at most one matches the row.
func (r *UserRepository) RedeemResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (*models.User, error) {
	query := `
	UPDATE users
	SET password_hash = $1, reset_token = NULL, reset_token_expiry = NULL, updated_at = $2
	WHERE reset_token = $3 AND reset_token_expiry > $2
	RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRow(ctx, query, passwordHash, now, tokenHash))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		logger.Log.Error("Failed to redeem reset token (repo)", zap.Error(err))
	}
	return u, notFound(err)
}

func (r *UserRepository) ListUsersPaginated(ctx context.Context, limit, offset int, search string) ([]*models.User, int, error) {
	logger.Log.Debug("Listing users (repo)", zap.Int("limit", limit), zap.Int("offset", offset))

	where := ""
	args := []any{}
	if s := strings.TrimSpace(search); s != "" {
		where = " WHERE email ILIKE $1 OR name ILIKE $1"
		args = append(args, "%"+EscapeLike(s)+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		logger.Log.Error("Failed to count users (repo)", zap.Error(err))
		return nil, 0, err
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM users%s ORDER BY id LIMIT $%d OFFSET $%d`, userColumns, where, n+1, n+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		logger.Log.Error("Failed to list users (repo)", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}
