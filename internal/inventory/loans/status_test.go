package loans

import "testing"

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusBorrowed, StatusReturned, StatusOverdue, StatusCancelled} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	for _, s := range []Status{"", "lost", "BORROWED"} {
		if s.Valid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusBorrowed, StatusReturned, true},
		{StatusBorrowed, StatusCancelled, true},
		{StatusBorrowed, StatusBorrowed, false},
		{StatusBorrowed, StatusOverdue, false},
		{StatusReturned, StatusBorrowed, false},
		{StatusReturned, StatusCancelled, false},
		{StatusCancelled, StatusReturned, false},
		{StatusCancelled, StatusBorrowed, false},
		{StatusOverdue, StatusReturned, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.ok {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}
