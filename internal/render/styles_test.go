package render

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestIsBuiltinStyle(t *testing.T) {
	tests := []struct {
		style string
		want  bool
	}{
		{StyleDark, true},
		{StyleLight, true},
		{StyleNoTTY, true},
		{StyleAuto, true},
		{"dracula", true},
		{"nope", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsBuiltinStyle(tt.style); got != tt.want {
			t.Errorf("IsBuiltinStyle(%q) = %v, want %v", tt.style, got, tt.want)
		}
	}
}

func TestValidateStyle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.json")
	if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := ValidateStyle(StyleDark); err != nil {
		t.Errorf("ValidateStyle(dark) error = %v", err)
	}
	if err := ValidateStyle(path); err != nil {
		t.Errorf("ValidateStyle(file) error = %v", err)
	}

	err := ValidateStyle("missing-style")
	var target *UnknownStyleError
	if !errors.As(err, &target) {
		t.Fatalf("ValidateStyle(missing) = %v, want *UnknownStyleError", err)
	}
	if target.Style != "missing-style" {
		t.Errorf("Style = %q", target.Style)
	}
}

func TestStyleNames(t *testing.T) {
	names := StyleNames()
	if !sort.StringsAreSorted(names) {
		t.Errorf("StyleNames() not sorted: %v", names)
	}
	for _, want := range []string{StyleAuto, StyleDark, StyleLight} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
			}
		}
		if !found {
			t.Errorf("StyleNames() missing %q", want)
		}
	}
}
