package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token validity windows. Access tokens authenticate individual requests;
// refresh tokens only mint new access tokens.
const (
	AccessTokenTTL  = 5 * time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer creates and verifies the two token kinds, each signed with its
// own secret so a refresh token can never pass as an access token.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	now           func() time.Time
}

func NewTokenIssuer(accessSecret, refreshSecret string) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		now:           time.Now,
	}
}

// IssueAccessToken signs a 5-hour access token carrying the user id.
func (t *TokenIssuer) IssueAccessToken(userID string) (string, error) {
	return t.issue(userID, t.accessSecret, AccessTokenTTL)
}

// IssueRefreshToken signs a 7-day refresh token carrying the user id.
func (t *TokenIssuer) IssueRefreshToken(userID string) (string, error) {
	return t.issue(userID, t.refreshSecret, RefreshTokenTTL)
}

// VerifyAccessToken validates signature and expiry and returns the user id.
func (t *TokenIssuer) VerifyAccessToken(tokenString string) (string, error) {
	return t.verify(tokenString, t.accessSecret)
}

// VerifyRefreshToken validates signature and expiry and returns the user id.
func (t *TokenIssuer) VerifyRefreshToken(tokenString string) (string, error) {
	return t.verify(tokenString, t.refreshSecret)
}

func (t *TokenIssuer) issue(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (t *TokenIssuer) verify(tokenString string, secret []byte) (string, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("invalid signing method")
			}
			return secret, nil
		},
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
