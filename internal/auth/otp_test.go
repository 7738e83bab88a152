package auth

import "testing"

func TestGenerateOTP(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		otp, err := GenerateOTP()
		if err != nil {
			t.Fatalf("generate otp: %v", err)
		}
		if len(otp) != otpDigits {
			t.Fatalf("expected %d digits, got %q", otpDigits, otp)
		}
		for _, ch := range otp {
			if ch < '0' || ch > '9' {
				t.Fatalf("non-numeric otp %q", otp)
			}
		}
		seen[otp] = true
	}
	// 200 draws from a million values should essentially never all collide.
	if len(seen) < 100 {
		t.Fatalf("suspiciously low otp variety: %d distinct values", len(seen))
	}
}
