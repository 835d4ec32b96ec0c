package order

import (
	"strings"
	"testing"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		id   int64
		want string
	}{
		{1, "ORD-2025-0001"},
		{7, "ORD-2025-0007"},
		{42, "ORD-2025-0042"},
		{999, "ORD-2025-0999"},
		{1000, "ORD-2025-1000"},
		{12345, "ORD-2025-12345"},
	}

	for _, tt := range tests {
		if got := Number(tt.id); got != tt.want {
			t.Errorf("Number(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestPlaceholderNumber(t *testing.T) {
	first := PlaceholderNumber()
	second := PlaceholderNumber()

	if !strings.HasPrefix(first, "TEMP-") {
		t.Errorf("placeholder %q does not start with TEMP-", first)
	}
	if first == second {
		t.Errorf("placeholders must be unique, got %q twice", first)
	}
}
