package models

import "testing"

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, ok := ParseCategory(string(c))
		if !ok || got != c {
			t.Errorf("ParseCategory(%q) = %q, %v", c, got, ok)
		}
	}

	invalid := []string{"", "food", "FOOD", "Gadgets", "Food "}
	for _, s := range invalid {
		if _, ok := ParseCategory(s); ok {
			t.Errorf("ParseCategory(%q) ok = true, want false", s)
		}
	}
}
