package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	digest, err := HashPassword("pw123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if digest == "pw123" {
		t.Fatal("digest must not equal the plaintext")
	}

	if !CheckPassword("pw123", digest) {
		t.Fatal("correct password should match its digest")
	}
	if CheckPassword("other", digest) {
		t.Fatal("wrong password must not match")
	}
}

func TestHashIsSalted(t *testing.T) {
	first, err := HashPassword("pw123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	second, err := HashPassword("pw123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password should differ by salt")
	}
}
