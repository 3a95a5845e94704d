package ratelimit_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/udyoghq/udyog/internal/app/system/ratelimit"
)

func TestLimiter_AllowsUpToLimit(t *testing.T) {
	l := ratelimit.New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("key") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if l.Allow("key") {
		t.Error("attempt over the limit should be denied")
	}
	if !l.Allow("other") {
		t.Error("an unrelated key must not be throttled")
	}
}

func TestLimiter_WindowExpires(t *testing.T) {
	l := ratelimit.New(1, 20*time.Millisecond)

	if !l.Allow("key") {
		t.Fatal("first attempt should be allowed")
	}
	if l.Allow("key") {
		t.Fatal("second attempt inside the window should be denied")
	}
	time.Sleep(30 * time.Millisecond)
	if !l.Allow("key") {
		t.Error("attempt after the window should be allowed")
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := ratelimit.New(1, time.Minute)

	l.Allow("key")
	if l.Allow("key") {
		t.Fatal("should be throttled before reset")
	}
	l.Reset("key")
	if !l.Allow("key") {
		t.Error("reset should clear the window")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr only", "192.0.2.1:5000", nil, "192.0.2.1"},
		{"x-forwarded-for wins", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2"}, "203.0.113.7"},
		{"x-real-ip fallback", "10.0.0.1:80", map[string]string{"X-Real-IP": "203.0.113.9"}, "203.0.113.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := ratelimit.ClientIP(req); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginLimiter_ThrottlesAccount(t *testing.T) {
	ll := ratelimit.NewLoginLimiter()

	req := httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = "192.0.2.1:1234"

	for i := 0; i < 5; i++ {
		ok, _ := ll.Check(req, "owner")
		if !ok {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	ok, msg := ll.Check(req, "owner")
	if ok {
		t.Fatal("sixth attempt for the same account should be throttled")
	}
	if msg == "" {
		t.Error("throttled check should explain itself")
	}

	ll.ResetLogin("owner")
	if ok, _ := ll.Check(req, "owner"); !ok {
		t.Error("successful sign-in should clear the account window")
	}
}
