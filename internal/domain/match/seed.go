package match

const (
	SemiFinal1ID = 101
	SemiFinal2ID = 102
	FinalID      = 103
)

type pairing struct {
	home string
	away string
}

var groupFixtures = []pairing{
	{"Real Madrid", "Man. City"},
	{"PSG", "Barcelona"},
	{"Milan", "Chelsea"},
	{"Real Madrid", "Barcelona"},
	{"Milan", "Man. City"},
	{"Real Madrid", "Chelsea"},
	{"PSG", "Man. City"},
	{"Milan", "Barcelona"},
	{"PSG", "Chelsea"},
}

// SeedMatches is the full initial list: nine group fixtures followed by the
// knockout placeholders.
func SeedMatches() []Match {
	out := make([]Match, 0, len(groupFixtures)+3)
	for i, p := range groupFixtures {
		out = append(out, Match{
			ID:       i + 1,
			Stage:    StageGroup,
			HomeTeam: p.home,
			AwayTeam: p.away,
			Fixed:    true,
		})
	}
	return append(out, KnockoutPlaceholders()...)
}

func KnockoutPlaceholders() []Match {
	return []Match{
		{ID: SemiFinal1ID, Stage: StageSemifinal, Label: "Semi Final 1"},
		{ID: SemiFinal2ID, Stage: StageSemifinal, Label: "Semi Final 2"},
		{ID: FinalID, Stage: StageFinal, Label: "Final"},
	}
}

// EnsureKnockout appends the knockout placeholders to a list that has none.
// The bool reports whether the list changed. An empty list is left alone;
// seeding covers it.
func EnsureKnockout(matches []Match) ([]Match, bool) {
	if len(matches) == 0 {
		return matches, false
	}
	for _, m := range matches {
		if m.Stage.IsKnockout() {
			return matches, false
		}
	}

	out := CloneAll(matches)
	added := false
	for _, ko := range KnockoutPlaceholders() {
		if IndexOf(out, ko.ID) >= 0 {
			continue
		}
		out = append(out, ko)
		added = true
	}
	return out, added
}
