package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/binkeyit/storefront/internal/auth"
	"github.com/binkeyit/storefront/internal/mailer"
	"github.com/binkeyit/storefront/internal/storage"
	"github.com/binkeyit/storefront/internal/store"
	"github.com/binkeyit/storefront/types"
)

const (
	// otpTTL is how long a forgot-password OTP stays valid.
	otpTTL = 10 * time.Minute
	// resetWindow is how long a password reset stays authorized after a
	// successful OTP verification.
	resetWindow = 15 * time.Minute
)

// UserRepository defines persistence operations for user records.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	SetEmailVerified(ctx context.Context, id string) error
	RecordLogin(ctx context.Context, id, refreshToken string, at time.Time) error
	ClearRefreshToken(ctx context.Context, id string) error
	SetAvatar(ctx context.Context, id, avatarURL string) error
	SetForgotPasswordOTP(ctx context.Context, id, otp string, expiry time.Time) error
	ConsumeForgotPasswordOTP(ctx context.Context, id string, resetDeadline time.Time) error
	SetPassword(ctx context.Context, id, passwordHash string) error
	UpdateDetails(ctx context.Context, id string, update types.UserUpdate) error
}

// UserService orchestrates the credential lifecycle: registration, email
// verification, login/logout, token refresh and the password-reset flow.
type UserService struct {
	repo        UserRepository
	tokens      *auth.TokenIssuer
	sender      mailer.Sender
	images      *storage.Storage
	frontendURL string
	logger      *slog.Logger
	now         func() time.Time
}

// NewUserService wires the auth flow. sender and images may be nil when the
// corresponding integration is not configured; the affected operations then
// degrade (no email, no avatar uploads) without failing the rest.
func NewUserService(
	repo UserRepository,
	tokens *auth.TokenIssuer,
	sender mailer.Sender,
	images *storage.Storage,
	frontendURL string,
	logger *slog.Logger,
) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		repo:        repo,
		tokens:      tokens,
		sender:      sender,
		images:      images,
		frontendURL: frontendURL,
		logger:      logger,
		now:         time.Now,
	}
}

// Register creates an unverified Active USER record and sends the
// verification email. The email is best-effort: the record exists even if
// delivery fails.
func (s *UserService) Register(ctx context.Context, name, email, password string) (types.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return types.User{}, failf(ErrValidation, "name, email and password can't be blank")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return types.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, types.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return types.User{}, failf(ErrConflict, "email already registered, please use a different email")
		}
		return types.User{}, err
	}

	verifyURL := fmt.Sprintf("%s/verify-email?code=%s", s.frontendURL, url.QueryEscape(user.ID))
	msg := mailer.RegistrationEmail(user.Name, verifyURL)
	msg.To = user.Email
	s.notify(ctx, msg)

	return user, nil
}

// VerifyEmail marks the account matching the code (the record identifier)
// as verified. No token is issued.
func (s *UserService) VerifyEmail(ctx context.Context, code string) error {
	if strings.TrimSpace(code) == "" {
		return failf(ErrValidation, "verification code can't be blank")
	}
	if err := s.repo.SetEmailVerified(ctx, code); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return failf(ErrNotFound, "invalid verification code")
		}
		return err
	}
	return nil
}

// LoginResult carries the outcome of a successful login.
type LoginResult struct {
	User         types.User
	AccessToken  string
	RefreshToken string
}

// Login authenticates the user and issues both token kinds. Unknown email
// and wrong password intentionally produce the same message; only a
// non-Active account gets a distinct one.
func (s *UserService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return LoginResult{}, failf(ErrValidation, "email and password can't be empty")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, failf(ErrAuth, "invalid email or password")
		}
		return LoginResult{}, err
	}

	if user.Status != types.StatusActive {
		return LoginResult{}, failf(ErrAuth, "account is not active, contact admin")
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return LoginResult{}, failf(ErrAuth, "invalid email or password")
	}

	accessToken, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue refresh token: %w", err)
	}

	loginAt := s.now()
	if err := s.repo.RecordLogin(ctx, user.ID, refreshToken, loginAt); err != nil {
		return LoginResult{}, err
	}
	user.RefreshToken = refreshToken
	user.LastLoginDate = &loginAt

	return LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout clears the stored refresh token, revoking it server-side.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	if err := s.repo.ClearRefreshToken(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return failf(ErrNotFound, "user not found")
		}
		return err
	}
	return nil
}

// RefreshAccessToken mints a new access token from a valid refresh token.
// The presented token must also match the stored copy, so a logged-out
// refresh token is rejected even before its expiry.
func (s *UserService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return "", failf(ErrAuth, "refresh token is required")
	}

	userID, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", failf(ErrAuth, "invalid or expired refresh token")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", failf(ErrAuth, "invalid or expired refresh token")
		}
		return "", err
	}
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return "", failf(ErrAuth, "refresh token has been revoked")
	}

	accessToken, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return accessToken, nil
}

// ForgotPassword stores a fresh OTP with a 10-minute deadline and emails it.
// Concurrent requests race and the last stored OTP wins.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return failf(ErrValidation, "email can't be blank")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return failf(ErrNotFound, "email is not registered")
		}
		return err
	}

	otp, err := auth.GenerateOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	if err := s.repo.SetForgotPasswordOTP(ctx, user.ID, otp, s.now().Add(otpTTL)); err != nil {
		return err
	}

	msg := mailer.ForgotPasswordEmail(user.Name, otp)
	msg.To = user.Email
	s.notify(ctx, msg)

	return nil
}

// VerifyForgotPasswordOtp checks the pending OTP. On success the OTP fields
// are cleared and a reset window opens, authorizing one ResetPassword call.
func (s *UserService) VerifyForgotPasswordOtp(ctx context.Context, email, otp string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(otp) == "" {
		return failf(ErrValidation, "email and otp can't be empty")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return failf(ErrNotFound, "email is not registered")
		}
		return err
	}

	if user.ForgotPasswordOTP == "" || user.ForgotPasswordExpiry == nil {
		return failf(ErrAuth, "invalid otp")
	}
	if s.now().After(*user.ForgotPasswordExpiry) {
		return failf(ErrOTPExpired, "otp expired")
	}
	if otp != user.ForgotPasswordOTP {
		return failf(ErrAuth, "invalid otp")
	}

	return s.repo.ConsumeForgotPasswordOTP(ctx, user.ID, s.now().Add(resetWindow))
}

// ResetPassword overwrites the password hash. It requires the reset window
// opened by VerifyForgotPasswordOtp and closes it afterwards.
func (s *UserService) ResetPassword(ctx context.Context, email, newPassword, confirmPassword string) error {
	if strings.TrimSpace(email) == "" || newPassword == "" || confirmPassword == "" {
		return failf(ErrValidation, "provide required fields email, newPassword, confirmPassword")
	}
	if newPassword != confirmPassword {
		return failf(ErrValidation, "newPassword and confirmPassword must be the same")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return failf(ErrNotFound, "email is not registered")
		}
		return err
	}

	if user.ResetPasswordExpiry == nil || s.now().After(*user.ResetPasswordExpiry) {
		return failf(ErrAuth, "password reset not authorized, verify the otp first")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.SetPassword(ctx, user.ID, hash)
}

// UpdateUserInput is a partial profile update; nil fields are left as-is.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Mobile   *string
	Password *string
}

// UpdateUserDetails applies the supplied fields only. A supplied password is
// re-hashed before storage.
func (s *UserService) UpdateUserDetails(ctx context.Context, userID string, input UpdateUserInput) error {
	update := types.UserUpdate{
		Name:   input.Name,
		Email:  input.Email,
		Mobile: input.Mobile,
	}
	if input.Password != nil {
		hash, err := auth.HashPassword(*input.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		update.PasswordHash = &hash
	}

	if err := s.repo.UpdateDetails(ctx, userID, update); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return failf(ErrNotFound, "user not found")
		case errors.Is(err, store.ErrDuplicate):
			return failf(ErrConflict, "email already registered, please use a different email")
		}
		return err
	}
	return nil
}

// UploadAvatar stores the profile image on the image host and persists its
// public URL on the record.
func (s *UserService) UploadAvatar(ctx context.Context, userID, filename string, r io.Reader, size int64, contentType string) (string, error) {
	if s.images == nil {
		return "", errors.New("image uploads are not configured")
	}

	key := avatarKey(userID, filename)
	if err := s.images.Put(ctx, key, r, size, contentType); err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}

	avatarURL := s.images.PublicURL(key)
	if err := s.repo.SetAvatar(ctx, userID, avatarURL); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", failf(ErrNotFound, "user not found")
		}
		return "", err
	}
	return avatarURL, nil
}

// Details returns the user record for display. Sensitive fields are excluded
// from serialization by the type's JSON tags.
func (s *UserService) Details(ctx context.Context, userID string) (types.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, failf(ErrNotFound, "user not found")
		}
		return types.User{}, err
	}
	return user, nil
}

// notify sends an email without failing the surrounding operation.
func (s *UserService) notify(ctx context.Context, msg mailer.Message) {
	if s.sender == nil {
		s.logger.Warn("email sender not configured, skipping", "to", msg.To, "subject", msg.Subject)
		return
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Error("email send failed", "to", msg.To, "subject", msg.Subject, "err", err)
	}
}

func avatarKey(userID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return "avatars/" + userID + ext
}
