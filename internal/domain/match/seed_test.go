package match

import (
	"reflect"
	"testing"
)

func TestSeedMatches(t *testing.T) {
	t.Parallel()

	seed := SeedMatches()
	if len(seed) != 12 {
		t.Fatalf("expected 12 seeded matches, got %d", len(seed))
	}
	if got := len(Group(seed)); got != 9 {
		t.Fatalf("expected 9 group matches, got %d", got)
	}

	ko := Knockout(seed)
	if len(ko) != 3 {
		t.Fatalf("expected 3 knockout placeholders, got %d", len(ko))
	}
	for _, m := range ko {
		if m.Fixed || m.Completed || m.HomeTeam != "" || m.AwayTeam != "" || m.Label == "" {
			t.Fatalf("placeholder must be blank and unfixed: %+v", m)
		}
	}

	seen := make(map[int]struct{}, len(seed))
	for _, m := range seed {
		if _, dup := seen[m.ID]; dup {
			t.Fatalf("duplicate id %d", m.ID)
		}
		seen[m.ID] = struct{}{}
		if m.HomeScore != nil || m.AwayScore != nil {
			t.Fatalf("seeded match %d must be unscored", m.ID)
		}
	}

	if seed[0].HomeTeam != "Real Madrid" || seed[0].AwayTeam != "Man. City" {
		t.Fatalf("unexpected first fixture: %+v", seed[0])
	}
}

func TestEnsureKnockout(t *testing.T) {
	t.Parallel()

	legacy := Group(SeedMatches())

	once, changed := EnsureKnockout(legacy)
	if !changed || len(once) != 12 {
		t.Fatalf("expected placeholders appended, changed=%v len=%d", changed, len(once))
	}
	if len(legacy) != 9 {
		t.Fatalf("input must not be modified")
	}

	twice, changed := EnsureKnockout(once)
	if changed {
		t.Fatalf("second run must be a no-op")
	}
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("second run changed the list")
	}

	if out, changed := EnsureKnockout(nil); changed || len(out) != 0 {
		t.Fatalf("empty list is left for seeding")
	}
}
