package money

import (
	"errors"
	"testing"
)

func TestToCents(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr error
	}{
		{"12.34", 1234, nil},
		{"0.01", 1, nil},
		{"100", 10000, nil},
		{"0", 0, nil},
		{"-5.50", -550, nil},
		{"12.345", 0, ErrFractionalCents},
		{"1.2.3", 0, ErrInvalidAmount},
		{"", 0, ErrInvalidAmount},
		{"abc", 0, ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ToCents(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ToCents(%q) error = %v, want %v", tt.in, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToCents(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ToCents(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromCents(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{1234, "12.34"},
		{1, "0.01"},
		{0, "0.00"},
		{10000, "100.00"},
		{-550, "-5.50"},
	}
	for _, tt := range tests {
		if got := FromCents(tt.in); got != tt.want {
			t.Errorf("FromCents(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 101, 123456789} {
		got, err := ToCents(FromCents(cents))
		if err != nil {
			t.Fatalf("round trip of %d failed: %v", cents, err)
		}
		if got != cents {
			t.Errorf("round trip of %d = %d", cents, got)
		}
	}
}
