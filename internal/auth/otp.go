package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const otpDigits = 6

var otpModulus = big.NewInt(1_000_000)

// GenerateOTP returns a uniformly distributed 6-digit numeric code from a
// cryptographic random source. Leading zeros are kept.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpModulus)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n), nil
}
