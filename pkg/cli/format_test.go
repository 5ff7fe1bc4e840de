package cli

import (
	"strings"
	"testing"
)

func TestDotPad(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{
			name:     "normal case",
			input:    "leaf-ports",
			width:    30,
			expected: "leaf-ports " + strings.Repeat(".", 19),
		},
		{
			name:     "short name",
			input:    "ok",
			width:    10,
			expected: "ok " + strings.Repeat(".", 7),
		},
		{
			name:     "name equals width minus one",
			input:    "abcde",
			width:    6,
			expected: "abcde",
		},
		{
			name:     "name equals width",
			input:    "abcdef",
			width:    6,
			expected: "abcdef",
		},
		{
			name:     "name longer than width",
			input:    "very-long-name",
			width:    5,
			expected: "very-long-name",
		},
		{
			name:     "empty string",
			input:    "",
			width:    10,
			expected: " " + strings.Repeat(".", 9),
		},
		{
			name:     "width of 1",
			input:    "",
			width:    1,
			expected: "",
		},
		{
			name:     "width of 2 with empty string",
			input:    "",
			width:    2,
			expected: " .",
		},
		{
			name:     "single char name width 5",
			input:    "x",
			width:    5,
			expected: "x " + strings.Repeat(".", 3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DotPad(tt.input, tt.width)
			if got != tt.expected {
				t.Errorf("DotPad(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.expected)
			}
		})
	}
}

func TestDotPad_ResultLength(t *testing.T) {
	result := DotPad("test", 20)
	if len(result) != 20 {
		t.Errorf("DotPad(%q, 20) len = %d, want 20", "test", len(result))
	}
}

func forceColor(t *testing.T, enabled bool) {
	t.Helper()
	prev := colorEnabled
	SetColor(enabled)
	t.Cleanup(func() { SetColor(prev) })
}

func TestColorFunctions(t *testing.T) {
	forceColor(t, true)

	tests := []struct {
		name   string
		fn     func(string) string
		prefix string
	}{
		{"Green", Green, "\033[32m"},
		{"Yellow", Yellow, "\033[33m"},
		{"Red", Red, "\033[31m"},
		{"Bold", Bold, "\033[1m"},
		{"Dim", Dim, "\033[2m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn("hello")
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("%s should start with %q", tt.name, tt.prefix)
			}
			if !strings.Contains(got, "hello") {
				t.Errorf("%s should contain the input string", tt.name)
			}
			if !strings.HasSuffix(got, "\033[0m") {
				t.Errorf("%s should end with reset code", tt.name)
			}
		})

		t.Run(tt.name+"_empty", func(t *testing.T) {
			got := tt.fn("")
			if !strings.HasSuffix(got, "\033[0m") {
				t.Errorf("%s(\"\") should end with reset code", tt.name)
			}
		})
	}
}

func TestColorDisabled(t *testing.T) {
	forceColor(t, false)

	for _, fn := range []func(string) string{Green, Yellow, Red, Bold, Dim} {
		if got := fn("plain"); got != "plain" {
			t.Errorf("color disabled: got %q, want %q", got, "plain")
		}
	}
}

func TestStatus(t *testing.T) {
	forceColor(t, false)

	if got := Status(true); got != "ok" {
		t.Errorf("Status(true) = %q", got)
	}
	if got := Status(false); got != "FAIL" {
		t.Errorf("Status(false) = %q", got)
	}
}

func TestUtilization(t *testing.T) {
	forceColor(t, true)

	tests := []struct {
		pct    float64
		prefix string
		text   string
	}{
		{50, "\033[32m", "50.0%"},
		{75, "\033[33m", "75.0%"},
		{100, "\033[33m", "100.0%"},
		{112.5, "\033[31m", "112.5%"},
	}
	for _, tt := range tests {
		got := Utilization(tt.pct)
		if !strings.HasPrefix(got, tt.prefix) || !strings.Contains(got, tt.text) {
			t.Errorf("Utilization(%v) = %q, want prefix %q and text %q", tt.pct, got, tt.prefix, tt.text)
		}
	}
}
