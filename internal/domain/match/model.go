package match

type Stage string

const (
	StageGroup     Stage = "group"
	StageSemifinal Stage = "semifinal"
	StageFinal     Stage = "final"
)

func (s Stage) Valid() bool {
	switch s {
	case StageGroup, StageSemifinal, StageFinal:
		return true
	default:
		return false
	}
}

func (s Stage) IsKnockout() bool {
	return s == StageSemifinal || s == StageFinal
}

// Match is one fixture. Empty team strings mean the slot is not assigned yet.
type Match struct {
	ID        int
	Stage     Stage
	Label     string
	HomeTeam  string
	AwayTeam  string
	HomeScore *int
	AwayScore *int
	Fixed     bool
	Completed bool
}

// IsFixed reports whether both participants are locked. Group matches are
// always fixed.
func (m Match) IsFixed() bool {
	return m.Stage == StageGroup || m.Fixed
}

// Counts reports whether the result contributes to standings.
func (m Match) Counts() bool {
	return m.Completed && m.HomeScore != nil && m.AwayScore != nil
}

func (m Match) Involves(team string) bool {
	return team != "" && (m.HomeTeam == team || m.AwayTeam == team)
}

func (m Match) Clone() Match {
	out := m
	out.HomeScore = cloneInt(m.HomeScore)
	out.AwayScore = cloneInt(m.AwayScore)
	return out
}

func CloneAll(matches []Match) []Match {
	out := make([]Match, len(matches))
	for i := range matches {
		out[i] = matches[i].Clone()
	}
	return out
}

func IndexOf(matches []Match, id int) int {
	for i := range matches {
		if matches[i].ID == id {
			return i
		}
	}
	return -1
}

// Knockout returns the knockout-stage entries in list order.
func Knockout(matches []Match) []Match {
	out := make([]Match, 0, 3)
	for _, m := range matches {
		if m.Stage.IsKnockout() {
			out = append(out, m.Clone())
		}
	}
	return out
}

// Group returns the group-stage entries in list order.
func Group(matches []Match) []Match {
	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		if m.Stage == StageGroup {
			out = append(out, m.Clone())
		}
	}
	return out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

func intPtr(v int) *int {
	return &v
}
