package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the salt rounds used since the first deployment.
const bcryptCost = 10

// HashPassword derives a salted one-way digest of the password.
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword reports whether the password matches the stored digest.
// bcrypt's comparison is constant-time.
func CheckPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
