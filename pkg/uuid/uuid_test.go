package uuid

import (
	"regexp"
	"testing"
	"time"
)

func TestNewV7_VersionAndVariantBits(t *testing.T) {
	t.Parallel()

	u := NewV7()

	if version := u[6] >> 4; version != 0x7 {
		t.Errorf("expected version 7, got %x", version)
	}
	if variant := u[8] >> 6; variant != 0x2 {
		t.Errorf("expected RFC 9562 variant bits 10, got %02b", variant)
	}
}

func TestString_Format(t *testing.T) {
	t.Parallel()

	u := NewV7()
	s := u.String()

	pattern := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	if !pattern.MatchString(s) {
		t.Errorf("String() = %q, does not match UUID v7 format", s)
	}
}

func TestNewV7_SortableByTime(t *testing.T) {
	t.Parallel()

	first := NewV7()
	time.Sleep(2 * time.Millisecond)
	second := NewV7()

	if first.String() >= second.String() {
		t.Errorf("expected %s < %s (v7 UUIDs sort by timestamp)", first, second)
	}
}

func TestNewV7_Unique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		s := NewV7().String()
		if _, dup := seen[s]; dup {
			t.Fatalf("duplicate UUID generated: %s", s)
		}
		seen[s] = struct{}{}
	}
}

func TestShort_UppercaseHex(t *testing.T) {
	t.Parallel()

	u := NewV7()
	short := u.Short()

	if len(short) != 8 {
		t.Fatalf("Short() = %q, want 8 characters", short)
	}
	if !regexp.MustCompile(`^[0-9A-F]{8}$`).MatchString(short) {
		t.Errorf("Short() = %q, want uppercase hex", short)
	}
}

func TestShort_DistinctWithinSameMillisecond(t *testing.T) {
	t.Parallel()

	// Short ids come from the random tail, so UUIDs generated in the
	// same timestamp window must still produce different values.
	seen := make(map[string]struct{}, 100)
	for i := 0; i < 100; i++ {
		s := NewV7().Short()
		if _, dup := seen[s]; dup {
			t.Fatalf("duplicate Short() value generated: %s", s)
		}
		seen[s] = struct{}{}
	}
}
