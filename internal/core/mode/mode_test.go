package mode

import "testing"

func TestParseRejectsUnknown(t *testing.T) {
	if _, err := Parse("BOGUS"); err == nil {
		t.Error("expected error for unknown mode")
	}
	if m, err := Parse("NORMAL"); err != nil || m != Normal {
		t.Errorf("got (%v, %v), want (NORMAL, nil)", m, err)
	}
}

func TestCanProcessTasks(t *testing.T) {
	cases := []struct {
		m    Mode
		want bool
	}{
		{Normal, true},
		{Alert, true},
		{PreLockdown, false},
		{Lockdown, false},
		{Recovery, true},
	}
	for _, c := range cases {
		if got := CanProcessTasks(c.m); got != c.want {
			t.Errorf("CanProcessTasks(%s) = %v, want %v", c.m, got, c.want)
		}
	}
}

func TestCanResearcherAccess(t *testing.T) {
	cases := []struct {
		m    Mode
		want bool
	}{
		{Normal, true},
		{Alert, true},
		{PreLockdown, true},
		{Lockdown, false},
		{Recovery, true},
	}
	for _, c := range cases {
		if got := CanResearcherAccess(c.m); got != c.want {
			t.Errorf("CanResearcherAccess(%s) = %v, want %v", c.m, got, c.want)
		}
	}
}
