package standing

import (
	"reflect"
	"testing"

	"github.com/riskibarqy/cup-tracker/internal/domain/match"
)

var groupA = []string{"Real Madrid", "PSG", "Milan"}

func result(id int, home, away string, hs, as int, completed bool) match.Match {
	return match.Match{
		ID:        id,
		Stage:     match.StageGroup,
		HomeTeam:  home,
		AwayTeam:  away,
		HomeScore: &hs,
		AwayScore: &as,
		Fixed:     true,
		Completed: completed,
	}
}

func TestCompute_GroupStageScenario(t *testing.T) {
	t.Parallel()

	matches := []match.Match{
		result(1, "Real Madrid", "Man. City", 3, 1, true),
		result(2, "PSG", "Barcelona", 2, 2, true),
	}

	got := Compute(groupA, matches)
	want := []Row{
		{Position: 1, Team: "Real Madrid", Played: 1, Won: 1, GoalsFor: 3, GoalsAgainst: 1, GoalDifference: 2, Points: 3},
		{Position: 2, Team: "PSG", Played: 1, Drawn: 1, GoalsFor: 2, GoalsAgainst: 2, Points: 1},
		{Position: 3, Team: "Milan"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected standings:\nwant %+v\ngot  %+v", want, got)
	}
}

func TestCompute_IgnoresUncountedAndBlankEntries(t *testing.T) {
	t.Parallel()

	open := result(1, "Real Madrid", "PSG", 5, 0, false)
	scoreless := match.Match{ID: 2, Stage: match.StageGroup, HomeTeam: "PSG", AwayTeam: "Milan", Completed: true}
	blank := match.Match{}
	knockoutShell := match.Match{ID: match.FinalID, Stage: match.StageFinal, Completed: true}

	got := Compute(groupA, []match.Match{open, scoreless, blank, knockoutShell})
	for i, row := range got {
		if row.Played != 0 || row.Points != 0 {
			t.Fatalf("row %d should be empty: %+v", i, row)
		}
		if row.Team != groupA[i] {
			t.Fatalf("zero rows must keep input order, got %s at %d", row.Team, i)
		}
	}
}

func TestCompute_TieBreaks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		matches []match.Match
		order   []string
	}{
		{
			name: "goal difference before goals for",
			matches: []match.Match{
				result(1, "Milan", "Chelsea", 2, 0, true),
				result(2, "PSG", "Chelsea", 4, 3, true),
				result(3, "Real Madrid", "Chelsea", 3, 3, true),
			},
			order: []string{"Milan", "PSG", "Real Madrid"},
		},
		{
			name: "goals for breaks equal difference",
			matches: []match.Match{
				result(1, "Milan", "Chelsea", 3, 2, true),
				result(2, "PSG", "Chelsea", 1, 0, true),
			},
			order: []string{"Milan", "PSG", "Real Madrid"},
		},
		{
			name: "full tie keeps input order",
			matches: []match.Match{
				result(1, "Milan", "Chelsea", 1, 0, true),
				result(2, "Real Madrid", "Barcelona", 1, 0, true),
			},
			order: []string{"Real Madrid", "Milan", "PSG"},
		},
		{
			name: "intra group fixture counts for both sides",
			matches: []match.Match{
				result(1, "Milan", "PSG", 0, 2, true),
			},
			order: []string{"PSG", "Real Madrid", "Milan"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Compute(groupA, tc.matches)
			for i, team := range tc.order {
				if got[i].Team != team {
					t.Fatalf("position %d: want %s, got %s (%+v)", i+1, team, got[i].Team, got)
				}
			}
		})
	}
}

func TestCompute_Invariants(t *testing.T) {
	t.Parallel()

	matches := []match.Match{
		result(1, "Real Madrid", "Man. City", 3, 1, true),
		result(2, "PSG", "Barcelona", 2, 2, true),
		result(3, "Milan", "Chelsea", 0, 1, true),
		result(4, "Real Madrid", "Barcelona", 1, 1, true),
		result(5, "Milan", "Man. City", 2, 0, true),
		result(6, "Real Madrid", "PSG", 0, 4, true),
		result(7, "PSG", "Man. City", 9, 9, false),
	}

	first := Compute(groupA, matches)
	second := Compute(groupA, matches)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("compute must be idempotent")
	}

	for _, row := range first {
		if row.GoalDifference != row.GoalsFor-row.GoalsAgainst {
			t.Fatalf("gd mismatch for %s: %+v", row.Team, row)
		}
		if row.Points != 3*row.Won+row.Drawn {
			t.Fatalf("points mismatch for %s: %+v", row.Team, row)
		}
		if row.Played != row.Won+row.Drawn+row.Lost {
			t.Fatalf("played mismatch for %s: %+v", row.Team, row)
		}

		played := 0
		for _, m := range matches {
			if m.Counts() && m.Involves(row.Team) {
				played++
			}
		}
		if row.Played != played {
			t.Fatalf("%s played %d, want %d", row.Team, row.Played, played)
		}
	}
}
