package validate

import (
	"fmt"
	"testing"
)

func TestPageCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
		kind Kind
	}{
		{in: "12", want: 12},
		{in: "  8\n", want: 8},
		{in: "1", want: 1},
		{in: "10000", want: 10000},
		{in: "+5", want: 5},
		{in: "", kind: EmptyInput},
		{in: "   ", kind: EmptyInput},
		{in: "abc", kind: NotAnInteger},
		{in: "3.5", kind: NotAnInteger},
		{in: "1e3", kind: NotAnInteger},
		{in: "1_000", kind: NotAnInteger},
		{in: "١٢", kind: NotAnInteger},
		{in: "0", kind: BelowMinimum},
		{in: "-3", kind: BelowMinimum},
		{in: "10001", kind: AboveMaximum},
		{in: "99999999999999999999999", kind: AboveMaximum},
		{in: "-99999999999999999999999", kind: BelowMinimum},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.in), func(t *testing.T) {
			got, err := PageCount(tt.in)
			if tt.kind == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tt.want {
					t.Fatalf("got %d, want %d", got, tt.want)
				}
				return
			}
			kind, ok := KindOf(err)
			if !ok {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if kind != tt.kind {
				t.Fatalf("kind = %s, want %s", kind, tt.kind)
			}
		})
	}
}

func TestKindOfWrapped(t *testing.T) {
	_, err := PageCount("x")
	wrapped := fmt.Errorf("form: %w", err)
	if k, ok := KindOf(wrapped); !ok || k != NotAnInteger {
		t.Errorf("KindOf(wrapped) = %v, %v", k, ok)
	}
	if _, ok := KindOf(fmt.Errorf("other")); ok {
		t.Errorf("KindOf should not match a plain error")
	}
}

func TestRange(t *testing.T) {
	if _, err := Range(0); err == nil {
		t.Error("Range(0) should fail")
	}
	if n, err := Range(MaxPages); err != nil || n != MaxPages {
		t.Errorf("Range(MaxPages) = %d, %v", n, err)
	}
}
