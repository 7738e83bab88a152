package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/binkeyit/storefront/types"
	"github.com/google/uuid"
)

const userColumns = `id, name, email, password_hash, avatar, mobile, refresh_token,
	verify_email, last_login_date, status, forgot_password_otp,
	forgot_password_expiry, reset_password_expiry, role, created_at, updated_at`

// UserRepository handles persistence for user credential records.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (types.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	now := time.Now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Status == "" {
		user.Status = types.StatusActive
	}
	if user.Role == "" {
		user.Role = types.RoleUser
	}

	const query = `
		INSERT INTO users (id, name, email, password_hash, status, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Status,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return types.User{}, ErrDuplicate
		}
		return types.User{}, err
	}
	return user, nil
}

// SetEmailVerified marks the user's email as verified.
func (r *UserRepository) SetEmailVerified(ctx context.Context, id string) error {
	const query = `
		UPDATE users SET verify_email = TRUE, updated_at = NOW() WHERE id = $1`
	return r.execOne(ctx, query, id)
}

// RecordLogin stores the freshly issued refresh token and stamps the login time.
func (r *UserRepository) RecordLogin(ctx context.Context, id, refreshToken string, at time.Time) error {
	const query = `
		UPDATE users
		SET refresh_token = $1, last_login_date = $2, updated_at = NOW()
		WHERE id = $3`
	return r.execOne(ctx, query, refreshToken, at, id)
}

// ClearRefreshToken drops the stored refresh token, revoking it.
func (r *UserRepository) ClearRefreshToken(ctx context.Context, id string) error {
	const query = `
		UPDATE users SET refresh_token = '', updated_at = NOW() WHERE id = $1`
	return r.execOne(ctx, query, id)
}

func (r *UserRepository) SetAvatar(ctx context.Context, id, avatarURL string) error {
	const query = `
		UPDATE users SET avatar = $1, updated_at = NOW() WHERE id = $2`
	return r.execOne(ctx, query, avatarURL, id)
}

// SetForgotPasswordOTP stores a pending reset code with its deadline.
// Concurrent calls race; the last write wins.
func (r *UserRepository) SetForgotPasswordOTP(ctx context.Context, id, otp string, expiry time.Time) error {
	const query = `
		UPDATE users
		SET forgot_password_otp = $1, forgot_password_expiry = $2, updated_at = NOW()
		WHERE id = $3`
	return r.execOne(ctx, query, otp, expiry, id)
}

// ConsumeForgotPasswordOTP clears the OTP fields and opens a reset window
// lasting until resetDeadline.
func (r *UserRepository) ConsumeForgotPasswordOTP(ctx context.Context, id string, resetDeadline time.Time) error {
	const query = `
		UPDATE users
		SET forgot_password_otp = '', forgot_password_expiry = NULL,
			reset_password_expiry = $1, updated_at = NOW()
		WHERE id = $2`
	return r.execOne(ctx, query, resetDeadline, id)
}

// SetPassword overwrites the password hash and closes any open reset window.
func (r *UserRepository) SetPassword(ctx context.Context, id, passwordHash string) error {
	const query = `
		UPDATE users
		SET password_hash = $1, reset_password_expiry = NULL, updated_at = NOW()
		WHERE id = $2`
	return r.execOne(ctx, query, passwordHash, id)
}

// UpdateDetails applies a partial profile update. Nil fields keep their
// stored value.
func (r *UserRepository) UpdateDetails(ctx context.Context, id string, update types.UserUpdate) error {
	assignments := []string{"updated_at = NOW()"}
	args := []any{}
	position := 1

	appendSet := func(column string, value *string) {
		if value == nil {
			return
		}
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, position))
		args = append(args, *value)
		position++
	}
	appendSet("name", update.Name)
	appendSet("email", update.Email)
	appendSet("mobile", update.Mobile)
	appendSet("password_hash", update.PasswordHash)

	query := fmt.Sprintf(
		`UPDATE users SET %s WHERE id = $%d`,
		strings.Join(assignments, ", "),
		position,
	)
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) execOne(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) scanOne(row *sql.Row) (types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Avatar,
		&user.Mobile,
		&user.RefreshToken,
		&user.VerifyEmail,
		&user.LastLoginDate,
		&user.Status,
		&user.ForgotPasswordOTP,
		&user.ForgotPasswordExpiry,
		&user.ResetPasswordExpiry,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}
