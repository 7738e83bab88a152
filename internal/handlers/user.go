package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/binkeyit/storefront/internal/auth"
	"github.com/binkeyit/storefront/internal/services"
	"github.com/binkeyit/storefront/types"
)

// maxAvatarSize caps profile image uploads.
const maxAvatarSize = 5 << 20

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// UserHandler provides the account and credential lifecycle endpoints.
type UserHandler struct {
	users  *services.UserService
	tokens *auth.TokenIssuer
}

func NewUserHandler(users *services.UserService, tokens *auth.TokenIssuer) *UserHandler {
	return &UserHandler{users: users, tokens: tokens}
}

// UserRouter registers the account routes on the given router.
func UserRouter(r chi.Router, users *services.UserService, tokens *auth.TokenIssuer) {
	handler := NewUserHandler(users, tokens)
	gate := RequireUser(tokens)

	r.Post("/register", handler.Register)
	r.Post("/verify-email", handler.VerifyEmail)
	r.Post("/login", handler.Login)
	r.With(gate).Get("/logout", handler.Logout)
	r.With(gate).Put("/upload-avatar", handler.UploadAvatar)
	r.With(gate).Put("/update-user", handler.UpdateDetails)
	r.Put("/forgot-password", handler.ForgotPassword)
	r.Put("/verify-forgot-password-otp", handler.VerifyForgotPasswordOtp)
	r.Put("/reset-password", handler.ResetPassword)
	r.Post("/refresh-token", handler.RefreshToken)
	r.With(gate).Get("/user-details", handler.Details)
}

// RequireUser validates the access token from the accessToken cookie or the
// Authorization header and injects the subject into the request context.
func RequireUser(tokens *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := accessTokenFromRequest(r)
			if tokenString == "" {
				writeFailure(w, http.StatusUnauthorized, "provide token")
				return
			}

			subject, err := tokens.VerifyAccessToken(tokenString)
			if err != nil {
				writeFailure(w, http.StatusUnauthorized, "unauthorized access")
				return
			}

			ctx := context.WithValue(r.Context(), contextSubjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin loads the authenticated user and rejects non-admin roles. It
// must run after RequireUser.
func RequireAdmin(users *services.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := userIDFromContext(r.Context())
			if err != nil {
				writeFailure(w, http.StatusUnauthorized, "unauthorized access")
				return
			}

			user, err := users.Details(r.Context(), userID)
			if err != nil {
				writeFailure(w, http.StatusUnauthorized, "unauthorized access")
				return
			}
			if user.Role != types.RoleAdmin {
				writeFailure(w, http.StatusForbidden, "permission denied")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "user registered successfully", user)
}

func (h *UserHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.users.VerifyEmail(r.Context(), req.Code); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "email verified successfully", nil)
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	setTokenCookie(w, accessTokenCookie, result.AccessToken, auth.AccessTokenTTL)
	setTokenCookie(w, refreshTokenCookie, result.RefreshToken, auth.RefreshTokenTTL)

	writeSuccess(w, http.StatusOK, "login successful", loginResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		User:         result.User,
	})
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeFailure(w, http.StatusUnauthorized, "unauthorized access")
		return
	}

	if err := h.users.Logout(r.Context(), userID); err != nil {
		writeServiceError(w, err)
		return
	}

	clearTokenCookie(w, accessTokenCookie)
	clearTokenCookie(w, refreshTokenCookie)

	writeSuccess(w, http.StatusOK, "logout successful", nil)
}

func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeFailure(w, http.StatusUnauthorized, "unauthorized access")
		return
	}

	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "avatar file is required")
		return
	}
	defer file.Close()

	avatarURL, err := h.users.UploadAvatar(
		r.Context(),
		userID,
		header.Filename,
		file,
		header.Size,
		header.Header.Get("Content-Type"),
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "avatar uploaded", avatarResponse{ID: userID, Avatar: avatarURL})
}

func (h *UserHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeFailure(w, http.StatusUnauthorized, "unauthorized access")
		return
	}

	var req updateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	input := services.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Mobile:   req.Mobile,
		Password: req.Password,
	}
	if err := h.users.UpdateUserDetails(r.Context(), userID, input); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "updated successfully", nil)
}

func (h *UserHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.users.ForgotPassword(r.Context(), req.Email); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "check your email", nil)
}

func (h *UserHandler) VerifyForgotPasswordOtp(w http.ResponseWriter, r *http.Request) {
	var req verifyOtpRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.users.VerifyForgotPasswordOtp(r.Context(), req.Email, req.OTP); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "otp verified successfully", nil)
}

func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.users.ResetPassword(r.Context(), req.Email, req.NewPassword, req.ConfirmPassword); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "password updated successfully", nil)
}

// RefreshToken accepts the refresh token from the refreshToken cookie or the
// Authorization header and answers with a fresh access token, also re-set as
// a cookie.
func (h *UserHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	refreshToken := ""
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil {
		refreshToken = cookie.Value
	}
	if refreshToken == "" {
		refreshToken = bearerToken(r)
	}
	if refreshToken == "" {
		writeFailure(w, http.StatusUnauthorized, "invalid token")
		return
	}

	accessToken, err := h.users.RefreshAccessToken(r.Context(), refreshToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	setTokenCookie(w, accessTokenCookie, accessToken, auth.AccessTokenTTL)

	writeSuccess(w, http.StatusOK, "new access token generated", refreshResponse{AccessToken: accessToken})
}

func (h *UserHandler) Details(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeFailure(w, http.StatusUnauthorized, "unauthorized access")
		return
	}

	user, err := h.users.Details(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "user details", user)
}

// Cross-site frontends need SameSite=None, which in turn requires Secure.
func setTokenCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func clearTokenCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func accessTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(accessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return bearerToken(r)
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyEmailRequest struct {
	Code string `json:"code"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	User         types.User `json:"user"`
}

type avatarResponse struct {
	ID     string `json:"_id"`
	Avatar string `json:"avatar"`
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Mobile   *string `json:"mobile"`
	Password *string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type verifyOtpRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type resetPasswordRequest struct {
	Email           string `json:"email"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}
