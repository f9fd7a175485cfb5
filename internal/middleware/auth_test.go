package middleware

import "testing"

func TestSecureCompare(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
		ok   bool
	}{
		{"matching tokens", "secret-token", "secret-token", true},
		{"wrong token", "wrong", "secret-token", false},
		{"empty input", "", "secret-token", false},
		{"both empty", "", "", true},
		{"prefix only", "secret", "secret-token", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := secureCompare(tt.got, tt.want); got != tt.ok {
				t.Errorf("secureCompare(%q, %q) = %v, want %v", tt.got, tt.want, got, tt.ok)
			}
		})
	}
}

func TestAdminEmailAllowed(t *testing.T) {
	tests := []struct {
		name      string
		allowlist string
		email     string
		ok        bool
	}{
		{"single entry match", "ops@example.com", "ops@example.com", true},
		{"case insensitive", "Ops@Example.com", "ops@example.com", true},
		{"entry with spaces", "a@example.com, b@example.com", "b@example.com", true},
		{"not listed", "a@example.com", "c@example.com", false},
		{"empty allowlist", "", "a@example.com", false},
		{"empty email", "a@example.com", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AdminEmailAllowed(tt.allowlist, tt.email); got != tt.ok {
				t.Errorf("AdminEmailAllowed(%q, %q) = %v, want %v", tt.allowlist, tt.email, got, tt.ok)
			}
		})
	}
}
