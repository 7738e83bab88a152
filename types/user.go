package types

import "time"

// User statuses. Only Active users may log in.
const (
	StatusActive    = "Active"
	StatusInactive  = "Inactive"
	StatusSuspended = "Suspended"
)

// User roles.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User represents a customer account in the system.
type User struct {
	// ID is the unique identifier of the user, assigned at creation.
	ID string `json:"_id" db:"id"`

	// Name is the user's display name.
	Name string `json:"name" db:"name"`

	// Email is the user's unique email address.
	Email string `json:"email" db:"email"`

	// PasswordHash stores the bcrypt digest of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// Avatar is the public URL of the user's profile image.
	Avatar string `json:"avatar" db:"avatar"`

	// Mobile is the user's phone number, empty when not provided.
	Mobile string `json:"mobile" db:"mobile"`

	// RefreshToken is the refresh token issued at login and cleared at
	// logout. It is compared against presented refresh tokens so that
	// logout actually revokes them.
	RefreshToken string `json:"-" db:"refresh_token"`

	// VerifyEmail reports whether the user completed email verification.
	VerifyEmail bool `json:"verify_email" db:"verify_email"`

	// LastLoginDate is the timestamp of the most recent successful login.
	LastLoginDate *time.Time `json:"last_login_date" db:"last_login_date"`

	// Status is one of Active, Inactive or Suspended.
	Status string `json:"status" db:"status"`

	// ForgotPasswordOTP holds the pending password-reset code, empty when
	// no reset is in flight.
	ForgotPasswordOTP string `json:"-" db:"forgot_password_otp"`

	// ForgotPasswordExpiry is the deadline for the pending OTP.
	ForgotPasswordExpiry *time.Time `json:"-" db:"forgot_password_expiry"`

	// ResetPasswordExpiry is the deadline of the reset window opened by a
	// successful OTP verification.
	ResetPasswordExpiry *time.Time `json:"-" db:"reset_password_expiry"`

	// Role is ADMIN or USER.
	Role string `json:"role" db:"role"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UserUpdate describes a partial profile update. Nil fields are left
// untouched; non-nil fields overwrite the stored value.
type UserUpdate struct {
	Name         *string
	Email        *string
	Mobile       *string
	PasswordHash *string
}
