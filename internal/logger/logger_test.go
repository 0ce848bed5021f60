package logger

import (
	"strings"
	"testing"
)

func TestRedactValue(t *testing.T) {
	tests := []struct {
		key   string
		value interface{}
		want  string
	}{
		{"email", "customer@example.com", "c****r@example.com"},
		{"email", "ab@example.com", "****@example.com"},
		{"phone", "9999999999", "[REDACTED]"},
		{"password", "hunter2hunter2", "[REDACTED]"},
		{"session_token", "a1b2c3d4e5f6a7b8", "a1b2****"},
		{"idempotency_key", "client-retry-1", "clie****"},
		{"order_number", "BSL-20260828-AB12CD34", "BSL-****"},
		{"status", "pending", "pending"},
	}

	for _, tt := range tests {
		got := redactValue(tt.key, tt.value)
		if got != tt.want {
			t.Errorf("redactValue(%q, %q) = %v, want %v", tt.key, tt.value, got, tt.want)
		}
	}
}

func TestRedactValueHashesUserID(t *testing.T) {
	first := redactValue("user_id", 42)
	second := redactValue("user_id", 42)
	other := redactValue("user_id", 43)

	if first != second {
		t.Errorf("Expected consistent hash for the same user ID, got %v and %v", first, second)
	}
	if first == other {
		t.Error("Expected different user IDs to hash differently")
	}
	if !strings.HasPrefix(first.(string), "user_") {
		t.Errorf("Expected hashed user ID to carry the user_ prefix, got %v", first)
	}
	if strings.Contains(first.(string), "42") {
		t.Errorf("Expected hashed user ID to not contain the raw ID, got %v", first)
	}
}
