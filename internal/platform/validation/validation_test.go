package validation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestErrors_EmptyIsNil(t *testing.T) {
	v := &Errors{}
	if err := v.Err(); err != nil {
		t.Fatalf("Err() = %v, want nil", err)
	}
	v.Add(nil)
	if v.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after adding nil", v.Len())
	}
}

func TestErrors_IsMatchesEachKind(t *testing.T) {
	v := &Errors{}
	v.Add(FormatError("state", "is the wrong length (should be 2 characters)"))
	v.Add(ConsistencyError("division2", "can't be blank when division1 is present"))
	err := v.Err()
	if err == nil {
		t.Fatal("Err() = nil, want error")
	}
	if !errors.Is(err, ErrFormat) {
		t.Error("errors.Is(err, ErrFormat) = false")
	}
	if !errors.Is(err, ErrConsistency) {
		t.Error("errors.Is(err, ErrConsistency) = false")
	}
	if errors.Is(err, ErrUniqueness) {
		t.Error("errors.Is(err, ErrUniqueness) = true, want false")
	}
}

func TestErrors_WrappedStillMatches(t *testing.T) {
	err := fmt.Errorf("create person: %w", Single(UniquenessError("badge_id")))
	if !errors.Is(err, ErrUniqueness) {
		t.Fatal("wrapped uniqueness error not matched")
	}
	v, ok := As(err)
	if !ok {
		t.Fatal("As() ok = false")
	}
	if diff := cmp.Diff([]string{"has already been taken"}, v.On("badge_id")); diff != "" {
		t.Errorf("On(badge_id) mismatch (-want +got):\n%s", diff)
	}
}

func TestErrors_On(t *testing.T) {
	v := &Errors{}
	v.Add(PresenceError("name"))
	v.Add(FormatError("state", "is the wrong length (should be 2 characters)"))
	v.Add(InclusionError("state"))
	got := v.On("state")
	want := []string{"is the wrong length (should be 2 characters)", "is not included in the list"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("On(state) mismatch (-want +got):\n%s", diff)
	}
	if got := v.On("missing"); got != nil {
		t.Errorf("On(missing) = %v, want nil", got)
	}
}

func TestErrors_Message(t *testing.T) {
	err := Single(PresenceError("name"))
	want := "validation failed: name can't be blank"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIsBlank(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"\t\n", true},
		{"Command", false},
		{" x ", false},
	}
	for _, tt := range tests {
		if got := IsBlank(tt.in); got != tt.want {
			t.Errorf("IsBlank(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
