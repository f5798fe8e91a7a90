package normalize

import "testing"

func TestLoginID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"admin", "admin"},
		{"ADMIN", "admin"},
		{"Admin", "admin"},
		{"  admin  ", "admin"},
		{"\tadmin\n", "admin"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := LoginID(tt.input); got != tt.want {
				t.Errorf("LoginID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRole(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"admin", "admin"},
		{"ADMIN", "admin"},
		{"Admin", "admin"},
		{"  admin  ", "admin"},
		{"viewer", "viewer"},
		{"VIEWER", "viewer"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Role(tt.input); got != tt.want {
				t.Errorf("Role(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestQueryParam(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"forecast", "forecast"},
		{"  forecast  ", "forecast"},
		{"\tforecast\n", "forecast"},
		{"FORECAST", "FORECAST"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := QueryParam(tt.input); got != tt.want {
				t.Errorf("QueryParam(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
