package validation

import (
	"strings"
	"testing"
)

func TestIsValidCode(t *testing.T) {
	tests := []struct {
		code  string
		valid bool
	}{
		{"events_spotlight", true},
		{"homepage_feature", true},
		{"social_boost", true},
		{"a1", true},

		// Invalid cases
		{"Events_Spotlight", false}, // Uppercase
		{"1events", false},          // Leading digit
		{"events-spotlight", false}, // Dash
		{"a", false},                // Too short
		{"", false},
		{"events spotlight", false}, // Space
	}

	for _, tc := range tests {
		result := IsValidCode(tc.code)
		if result != tc.valid {
			t.Errorf("IsValidCode(%q) = %v, want %v", tc.code, result, tc.valid)
		}
	}
}

func TestIsValidUserID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"usr_8f14e45fceea167a5a36dedd", true},
		{"alice-42", true},
		{"A1b2C3", true},

		// Invalid
		{"", false},
		{"user id", false},
		{"user@example.com", false},
		{strings.Repeat("a", 65), false}, // one past the limit
	}

	for _, tc := range tests {
		result := IsValidUserID(tc.id)
		if result != tc.valid {
			t.Errorf("IsValidUserID(%q) = %v, want %v", tc.id, result, tc.valid)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"hello", 10, "hello"},
		{"  hello  ", 10, "hello"},
		{"hello world", 5, "hello"},
		{"hello\x00world", 20, "helloworld"},
	}

	for _, tc := range tests {
		result := SanitizeString(tc.input, tc.maxLen)
		if result != tc.expected {
			t.Errorf("SanitizeString(%q, %d) = %q, want %q", tc.input, tc.maxLen, result, tc.expected)
		}
	}
}

func TestValidate(t *testing.T) {
	// Test valid input
	errors := Validate(
		Required("packageCode", "events_spotlight"),
		ValidCode("packageCode", "events_spotlight"),
	)
	if len(errors) != 0 {
		t.Errorf("Expected no errors, got %v", errors)
	}

	// Test invalid input
	errors = Validate(
		Required("packageCode", ""),
		ValidCode("addOnCode", "Not A Code"),
	)
	if len(errors) != 2 {
		t.Errorf("Expected 2 errors, got %d", len(errors))
	}
}

func TestValidAmount(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"1.00", true},
		{"0.50", true},
		{"100", true},
		{"0.000001", true},

		// Invalid
		{".50", false},
		{"1.", false},
		{"abc", false},
		{"-1.00", false},
		{"1.2.3", false},
	}

	for _, tc := range tests {
		err := ValidAmount("amount", tc.value)()
		valid := err == nil
		if valid != tc.valid {
			t.Errorf("ValidAmount(%q) valid=%v, want %v", tc.value, valid, tc.valid)
		}
	}
}

func TestMaxLength(t *testing.T) {
	// Under limit
	err := MaxLength("field", "hello", 10)()
	if err != nil {
		t.Error("Expected no error for string under limit")
	}

	// At limit
	err = MaxLength("field", "hello", 5)()
	if err != nil {
		t.Error("Expected no error for string at limit")
	}

	// Over limit
	err = MaxLength("field", "hello world", 5)()
	if err == nil {
		t.Error("Expected error for string over limit")
	}
}
