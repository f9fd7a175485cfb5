package validation

import "testing"

func TestNormalizeKeyword(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		want    string
	}{
		{"lowercases", "ERROR", "error"},
		{"trims whitespace", "  disk full  ", "disk full"},
		{"blank collapses to empty", "   ", ""},
		{"inner whitespace kept", "disk  full", "disk  full"},
		{"already normalized", "error", "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeKeyword(tt.keyword); got != tt.want {
				t.Errorf("NormalizeKeyword(%q) = %q, want %q", tt.keyword, got, tt.want)
			}
		})
	}
}

func TestValidateKeyGeneration(t *testing.T) {
	tests := []struct {
		name  string
		days  int
		count int
		want  bool
	}{
		{"valid", 30, 10, true},
		{"zero days", 0, 10, false},
		{"zero count", 30, 0, false},
		{"count over limit", 30, 2001, false},
		{"count at limit", 30, 2000, true},
		{"negative days", -1, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateKeyGeneration(tt.days, tt.count); got != tt.want {
				t.Errorf("ValidateKeyGeneration(%d, %d) = %v, want %v", tt.days, tt.count, got, tt.want)
			}
		})
	}
}
