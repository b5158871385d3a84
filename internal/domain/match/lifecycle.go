package match

import (
	"fmt"
	"strconv"
	"strings"
)

// Score is a result pair. Both sides are nil or both are set.
type Score struct {
	Home *int
	Away *int
}

func (s Score) IsSet() bool {
	return s.Home != nil && s.Away != nil
}

// ParseScore reads raw form input. Two blanks clear the result; one blank is
// rejected.
func ParseScore(homeRaw, awayRaw string) (Score, error) {
	homeRaw = strings.TrimSpace(homeRaw)
	awayRaw = strings.TrimSpace(awayRaw)

	switch {
	case homeRaw == "" && awayRaw == "":
		return Score{}, nil
	case homeRaw == "" || awayRaw == "":
		return Score{}, fmt.Errorf("%w: enter both scores or neither", ErrValidation)
	}

	home, err := parseGoals("home", homeRaw)
	if err != nil {
		return Score{}, err
	}
	away, err := parseGoals("away", awayRaw)
	if err != nil {
		return Score{}, err
	}
	return Score{Home: intPtr(home), Away: intPtr(away)}, nil
}

func parseGoals(side, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s score %q is not a number", ErrValidation, side, raw)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %s score must be >= 0", ErrValidation, side)
	}
	return n, nil
}

// ValidatePairing checks a knockout assignment before it touches any list.
func ValidatePairing(homeTeam, awayTeam string) error {
	homeTeam = strings.TrimSpace(homeTeam)
	awayTeam = strings.TrimSpace(awayTeam)
	if homeTeam == "" || awayTeam == "" {
		return fmt.Errorf("%w: select both teams", ErrValidation)
	}
	if homeTeam == awayTeam {
		return fmt.Errorf("%w: select two different teams", ErrValidation)
	}
	return nil
}

// SubmitScore sets the result and completion flag of one match. A knockout
// slot has to be fixed first.
func SubmitScore(matches []Match, id int, score Score, completed bool) ([]Match, Match, error) {
	if err := validateScore(score); err != nil {
		return nil, Match{}, err
	}
	return apply(matches, id, func(m *Match) error {
		if !m.IsFixed() {
			return fmt.Errorf("%w: fix the teams of %s before entering a result", ErrValidation, describe(*m))
		}
		setScore(m, score)
		m.Completed = completed
		return nil
	})
}

// Fix locks the participants of a knockout slot and makes it playable. A
// changed pairing drops any result recorded for the previous one.
func Fix(matches []Match, id int, homeTeam, awayTeam string) ([]Match, Match, error) {
	if err := ValidatePairing(homeTeam, awayTeam); err != nil {
		return nil, Match{}, err
	}
	homeTeam = strings.TrimSpace(homeTeam)
	awayTeam = strings.TrimSpace(awayTeam)

	return apply(matches, id, func(m *Match) error {
		if !m.Stage.IsKnockout() {
			return fmt.Errorf("%w: only knockout matches can be fixed", ErrValidation)
		}
		if m.HomeTeam != homeTeam || m.AwayTeam != awayTeam {
			setScore(m, Score{})
		}
		m.HomeTeam = homeTeam
		m.AwayTeam = awayTeam
		m.Fixed = true
		m.Completed = false
		return nil
	})
}

// Reopen makes a completed knockout match editable again. Teams, scores and
// the fixed flag are left as they are.
func Reopen(matches []Match, id int) ([]Match, Match, error) {
	return apply(matches, id, func(m *Match) error {
		if !m.Stage.IsKnockout() {
			return fmt.Errorf("%w: only knockout matches can be reopened", ErrValidation)
		}
		if !m.Completed {
			return fmt.Errorf("%w: %s is not completed", ErrValidation, describe(*m))
		}
		m.Completed = false
		return nil
	})
}

// KnockoutResult is a full edit of a fixed knockout slot.
type KnockoutResult struct {
	HomeTeam  string
	AwayTeam  string
	Score     Score
	Completed bool
}

// UpdateKnockoutResult rewrites teams, score and completion of a fixed
// knockout slot.
func UpdateKnockoutResult(matches []Match, id int, in KnockoutResult) ([]Match, Match, error) {
	if err := ValidatePairing(in.HomeTeam, in.AwayTeam); err != nil {
		return nil, Match{}, err
	}
	if err := validateScore(in.Score); err != nil {
		return nil, Match{}, err
	}

	return apply(matches, id, func(m *Match) error {
		if !m.Stage.IsKnockout() {
			return fmt.Errorf("%w: %s is not a knockout match", ErrValidation, describe(*m))
		}
		if !m.Fixed {
			return fmt.Errorf("%w: fix the teams of %s first", ErrValidation, describe(*m))
		}
		m.HomeTeam = strings.TrimSpace(in.HomeTeam)
		m.AwayTeam = strings.TrimSpace(in.AwayTeam)
		setScore(m, in.Score)
		m.Completed = in.Completed
		return nil
	})
}

// apply runs fn on a copy of the target match inside a copy of the list. The
// input slice is never modified.
func apply(matches []Match, id int, fn func(*Match) error) ([]Match, Match, error) {
	idx := IndexOf(matches, id)
	if idx < 0 {
		return nil, Match{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	next := CloneAll(matches)
	if err := fn(&next[idx]); err != nil {
		return nil, Match{}, err
	}
	return next, next[idx].Clone(), nil
}

func validateScore(s Score) error {
	if (s.Home == nil) != (s.Away == nil) {
		return fmt.Errorf("%w: enter both scores or neither", ErrValidation)
	}
	if s.Home != nil && (*s.Home < 0 || *s.Away < 0) {
		return fmt.Errorf("%w: scores must be >= 0", ErrValidation)
	}
	return nil
}

func setScore(m *Match, s Score) {
	m.HomeScore = cloneInt(s.Home)
	m.AwayScore = cloneInt(s.Away)
}

func describe(m Match) string {
	if m.Label != "" {
		return m.Label
	}
	return fmt.Sprintf("match %d", m.ID)
}
