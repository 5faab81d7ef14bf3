package utils

import (
	"strings"
	"testing"
)

func TestGetUsername(t *testing.T) {
	username, err := GetUsername()
	if err != nil {
		t.Fatalf("GetUsername failed: %v", err)
	}
	if username == "" {
		t.Fatal("Expected non-empty username")
	}
}

func TestFormatPaths(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	formatted := FormatPaths([]string{"/keys/hush", "/keys/hush.pub"})

	if !strings.HasPrefix(formatted, "\n") {
		t.Errorf("Expected leading newline, got %q", formatted)
	}
	for _, p := range []string{"    - /keys/hush\n", "    - /keys/hush.pub\n"} {
		if !strings.Contains(formatted, p) {
			t.Errorf("Expected %q in %q", p, formatted)
		}
	}
}

func TestReadAllFrom(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Empty", "", ""},
		{"SingleLine", "hello", "hello"},
		{"KeepsTrailingNewline", "hello\n", "hello\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := ReadAllFrom(strings.NewReader(tc.input))
			if err != nil {
				t.Fatalf("ReadAllFrom failed: %v", err)
			}
			if string(data) != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, data)
			}
		})
	}
}
