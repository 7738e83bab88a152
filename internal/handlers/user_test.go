package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binkeyit/storefront/internal/auth"
	"github.com/binkeyit/storefront/internal/services"
	"github.com/binkeyit/storefront/internal/store"
	"github.com/binkeyit/storefront/types"
)

type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]*types.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*types.User)}
}

func (m *memoryUserRepo) GetByID(_ context.Context, id string) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return *u, nil
	}
	return types.User{}, store.ErrNotFound
}

func (m *memoryUserRepo) GetByEmail(_ context.Context, email string) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return *u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (m *memoryUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return types.User{}, store.ErrDuplicate
		}
	}
	user.ID = uuid.NewString()
	user.Status = types.StatusActive
	user.Role = types.RoleUser
	stored := user
	m.users[user.ID] = &stored
	return user, nil
}

func (m *memoryUserRepo) SetEmailVerified(_ context.Context, id string) error {
	return m.mutate(id, func(u *types.User) { u.VerifyEmail = true })
}

func (m *memoryUserRepo) RecordLogin(_ context.Context, id, refreshToken string, at time.Time) error {
	return m.mutate(id, func(u *types.User) {
		u.RefreshToken = refreshToken
		u.LastLoginDate = &at
	})
}

func (m *memoryUserRepo) ClearRefreshToken(_ context.Context, id string) error {
	return m.mutate(id, func(u *types.User) { u.RefreshToken = "" })
}

func (m *memoryUserRepo) SetAvatar(_ context.Context, id, avatarURL string) error {
	return m.mutate(id, func(u *types.User) { u.Avatar = avatarURL })
}

func (m *memoryUserRepo) SetForgotPasswordOTP(_ context.Context, id, otp string, expiry time.Time) error {
	return m.mutate(id, func(u *types.User) {
		u.ForgotPasswordOTP = otp
		u.ForgotPasswordExpiry = &expiry
	})
}

func (m *memoryUserRepo) ConsumeForgotPasswordOTP(_ context.Context, id string, resetDeadline time.Time) error {
	return m.mutate(id, func(u *types.User) {
		u.ForgotPasswordOTP = ""
		u.ForgotPasswordExpiry = nil
		u.ResetPasswordExpiry = &resetDeadline
	})
}

func (m *memoryUserRepo) SetPassword(_ context.Context, id, passwordHash string) error {
	return m.mutate(id, func(u *types.User) {
		u.PasswordHash = passwordHash
		u.ResetPasswordExpiry = nil
	})
}

func (m *memoryUserRepo) UpdateDetails(_ context.Context, id string, update types.UserUpdate) error {
	return m.mutate(id, func(u *types.User) {
		if update.Name != nil {
			u.Name = *update.Name
		}
		if update.Email != nil {
			u.Email = *update.Email
		}
		if update.Mobile != nil {
			u.Mobile = *update.Mobile
		}
		if update.PasswordHash != nil {
			u.PasswordHash = *update.PasswordHash
		}
	})
}

func (m *memoryUserRepo) mutate(id string, fn func(*types.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return store.ErrNotFound
	}
	fn(u)
	return nil
}

func newTestRouter(t *testing.T) (*chi.Mux, *memoryUserRepo) {
	t.Helper()
	repo := newMemoryUserRepo()
	tokens := auth.NewTokenIssuer("access-secret", "refresh-secret")
	users := services.NewUserService(repo, tokens, nil, nil, "https://shop.example", nil)

	router := chi.NewRouter()
	router.Route("/api/user", func(r chi.Router) {
		UserRouter(r, users, tokens)
	})
	return router, repo
}

func doJSON(t *testing.T, router http.Handler, method, target string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func registerAndLogin(t *testing.T, router http.Handler) []*http.Cookie {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/user/register", map[string]string{
		"name": "Ann", "email": "ann@x.com", "password": "pw123",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/user/login", map[string]string{
		"email": "ann@x.com", "password": "pw123",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Result().Cookies()
}

func TestRegisterEnvelope(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/user/register", map[string]string{
		"name": "Ann", "email": "ann@x.com", "password": "pw123",
	}, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.False(t, resp.Error)
	assert.NotNil(t, resp.Data)

	// Sensitive fields must never serialize.
	raw := rec.Body.String()
	assert.NotContains(t, raw, "password")
	assert.NotContains(t, raw, "refresh_token")
}

func TestRegisterDuplicateEnvelope(t *testing.T) {
	router, _ := newTestRouter(t)
	body := map[string]string{"name": "Ann", "email": "ann@x.com", "password": "pw123"}

	rec := doJSON(t, router, http.MethodPost, "/api/user/register", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/user/register", body, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Error)
	assert.False(t, resp.Success)
}

func TestLoginSetsTokenCookies(t *testing.T) {
	router, _ := newTestRouter(t)
	cookies := registerAndLogin(t, router)

	byName := map[string]*http.Cookie{}
	for _, c := range cookies {
		byName[c.Name] = c
	}

	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		c, ok := byName[name]
		require.True(t, ok, "missing %s cookie", name)
		assert.NotEmpty(t, c.Value)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteNoneMode, c.SameSite)
	}
}

func TestUserDetailsRequiresToken(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/user/user-details", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Error)
}

func TestUserDetailsWithCookie(t *testing.T) {
	router, _ := newTestRouter(t)
	cookies := registerAndLogin(t, router)

	rec := doJSON(t, router, http.MethodGet, "/api/user/user-details", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Email string `json:"email"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "ann@x.com", resp.Data.Email)
}

func TestUserDetailsWithBearerToken(t *testing.T) {
	router, _ := newTestRouter(t)
	cookies := registerAndLogin(t, router)

	var accessToken string
	for _, c := range cookies {
		if c.Name == accessTokenCookie {
			accessToken = c.Value
		}
	}
	require.NotEmpty(t, accessToken)

	req := httptest.NewRequest(http.MethodGet, "/api/user/user-details", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogoutClearsCookiesAndRevokesRefresh(t *testing.T) {
	router, _ := newTestRouter(t)
	cookies := registerAndLogin(t, router)

	var refreshToken string
	for _, c := range cookies {
		if c.Name == refreshTokenCookie {
			refreshToken = c.Value
		}
	}
	require.NotEmpty(t, refreshToken)

	rec := doJSON(t, router, http.MethodGet, "/api/user/logout", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, c := range rec.Result().Cookies() {
		assert.Less(t, c.MaxAge, 0, "cookie %s should be expired", c.Name)
	}

	// The refresh token no longer matches the stored copy.
	rec = doJSON(t, router, http.MethodPost, "/api/user/refresh-token", nil, []*http.Cookie{
		{Name: refreshTokenCookie, Value: refreshToken},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshTokenFromCookie(t *testing.T) {
	router, _ := newTestRouter(t)
	cookies := registerAndLogin(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/user/refresh-token", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.AccessToken)

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == accessTokenCookie && c.Value != "" {
			found = true
		}
	}
	assert.True(t, found, "refresh should re-set the access token cookie")
}

func TestRefreshTokenMissing(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/user/refresh-token", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestForgotPasswordUnknownEmailAnswers400(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPut, "/api/user/forgot-password", map[string]string{
		"email": "nobody@x.com",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Error)
	assert.False(t, resp.Success)
}

func TestForgotPasswordResetRoundTrip(t *testing.T) {
	router, repo := newTestRouter(t)
	registerAndLogin(t, router)

	rec := doJSON(t, router, http.MethodPut, "/api/user/forgot-password", map[string]string{
		"email": "ann@x.com",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	user, err := repo.GetByEmail(context.Background(), "ann@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, user.ForgotPasswordOTP)

	rec = doJSON(t, router, http.MethodPut, "/api/user/verify-forgot-password-otp", map[string]string{
		"email": "ann@x.com", "otp": user.ForgotPasswordOTP,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/api/user/reset-password", map[string]string{
		"email": "ann@x.com", "newPassword": "fresh456", "confirmPassword": "fresh456",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/user/login", map[string]string{
		"email": "ann@x.com", "password": "fresh456",
	}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestVerifyEmailEndpoint(t *testing.T) {
	router, repo := newTestRouter(t)
	registerAndLogin(t, router)

	user, err := repo.GetByEmail(context.Background(), "ann@x.com")
	require.NoError(t, err)
	require.False(t, user.VerifyEmail)

	rec := doJSON(t, router, http.MethodPost, "/api/user/verify-email", map[string]string{
		"code": user.ID,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	user, err = repo.GetByEmail(context.Background(), "ann@x.com")
	require.NoError(t, err)
	assert.True(t, user.VerifyEmail)
}

func TestUpdateUserEndpoint(t *testing.T) {
	router, repo := newTestRouter(t)
	cookies := registerAndLogin(t, router)

	rec := doJSON(t, router, http.MethodPut, "/api/user/update-user", map[string]string{
		"mobile": "5550100",
	}, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	user, err := repo.GetByEmail(context.Background(), "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, "5550100", user.Mobile)
	assert.Equal(t, "Ann", user.Name)
}
