package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestResendClientSend(t *testing.T) {
	var got resendRequest
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewResendClient("test-key", "Binkeyit <noreply@example.com>")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	client.endpoint = server.URL

	err = client.Send(context.Background(), Message{
		To:      "ann@x.com",
		Subject: "hello",
		HTML:    "<p>hi</p>",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected authorization header: %q", gotAuth)
	}
	if len(got.To) != 1 || got.To[0] != "ann@x.com" {
		t.Fatalf("unexpected recipients: %v", got.To)
	}
	if got.From != "Binkeyit <noreply@example.com>" {
		t.Fatalf("unexpected from: %q", got.From)
	}
}

func TestResendClientSendProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client, err := NewResendClient("bad-key", "noreply@example.com")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	client.endpoint = server.URL

	err = client.Send(context.Background(), Message{To: "ann@x.com"})
	if err == nil {
		t.Fatal("expected error from provider")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Fatalf("error should carry the provider status: %v", err)
	}
}

func TestNewResendClientRequiresKey(t *testing.T) {
	if _, err := NewResendClient("", "noreply@example.com"); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestRegistrationEmailEscapesName(t *testing.T) {
	msg := RegistrationEmail("<script>", "https://shop.example/verify-email?code=abc")
	if strings.Contains(msg.HTML, "<script>") {
		t.Fatal("name must be escaped")
	}
	if !strings.Contains(msg.HTML, "verify-email?code=abc") {
		t.Fatal("verification URL missing from body")
	}
}

func TestForgotPasswordEmailContainsOTP(t *testing.T) {
	msg := ForgotPasswordEmail("Ann", "042137")
	if !strings.Contains(msg.HTML, "042137") {
		t.Fatal("otp missing from body")
	}
	if msg.Subject == "" {
		t.Fatal("subject must be set")
	}
}
