package shopping

import "testing"

func TestCleanName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Milk", "Milk"},
		{"  Milk  ", "Milk"},
		{"whole \t milk", "whole milk"},
		{"חלב  3%", "חלב 3%"},
		{"   ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanName(tt.in); got != tt.want {
			t.Errorf("CleanName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNameKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Milk", "milk"},
		{"MILK", "milk"},
		{"  Whole   Milk ", "whole milk"},
		{"חלב", "חלב"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NameKey(tt.in); got != tt.want {
			t.Errorf("NameKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
