package domain

import "testing"

// ─── Reputation Tests ───────────────────────────────────────────────────────

func TestNextReputation(t *testing.T) {
	tests := []struct {
		name    string
		current int
		rating  int
		want    int
	}{
		{"perfect rating holds perfect score", 100, 5, 100},
		{"zero rating from perfect score", 100, 0, 90},
		{"mid rating pulls down", 100, 3, 96},
		{"zero score lifted by top rating", 0, 5, 10},
		{"truncates toward zero", 99, 5, 99}, // (891+100)/10 = 99.1
		{"neutral fixpoint", 60, 3, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextReputation(tt.current, tt.rating)
			if got != tt.want {
				t.Errorf("NextReputation(%d, %d) = %d, want %d", tt.current, tt.rating, got, tt.want)
			}
		})
	}
}

func TestNextReputation_Converges(t *testing.T) {
	// Repeated 0-ratings drive reputation to 0, never below.
	rep := InitialReputation
	for i := 0; i < 200; i++ {
		rep = NextReputation(rep, 0)
		if rep < 0 {
			t.Fatalf("reputation went negative: %d", rep)
		}
	}
	if rep != 0 {
		t.Errorf("reputation after 200 zero ratings = %d, want 0", rep)
	}
}

func TestValidRating(t *testing.T) {
	for r := MinRating; r <= MaxRating; r++ {
		if !ValidRating(r) {
			t.Errorf("ValidRating(%d) = false, want true", r)
		}
	}
	if ValidRating(-1) {
		t.Error("ValidRating(-1) should be false")
	}
	if ValidRating(6) {
		t.Error("ValidRating(6) should be false")
	}
}

// ─── Status Tests ───────────────────────────────────────────────────────────

func TestServiceStatuses(t *testing.T) {
	statuses := []ServiceStatus{ServiceOffered, ServiceAccepted, ServiceCompleted}
	seen := make(map[ServiceStatus]bool)
	for _, s := range statuses {
		if seen[s] {
			t.Errorf("duplicate ServiceStatus: %s", s)
		}
		seen[s] = true
	}
}

func TestContributionKey(t *testing.T) {
	c := Contribution{Project: 1, User: 2, Hours: 5}
	key := c.Key()
	if key.Project != 1 || key.User != 2 {
		t.Errorf("Key() = %+v, want {1 2}", key)
	}
	// Tuple keys must distinguish (1,2) from (2,1) — the reason the
	// composite key is a struct and not a concatenated string.
	other := Contribution{Project: 2, User: 1}.Key()
	if key == other {
		t.Error("keys (1,2) and (2,1) must differ")
	}
}

// ─── Error Tests ────────────────────────────────────────────────────────────

func TestSentinelErrors(t *testing.T) {
	errs := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidState", ErrInvalidState},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrInsufficientBalance", ErrInsufficientBalance},
	}

	for _, tt := range errs {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Fatalf("%s is nil", tt.name)
			}
			if tt.err.Error() == "" {
				t.Errorf("%s.Error() is empty", tt.name)
			}
		})
	}
}
