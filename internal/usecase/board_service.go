package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/cup-tracker/internal/domain/match"
	"github.com/riskibarqy/cup-tracker/internal/domain/scorer"
	"github.com/riskibarqy/cup-tracker/internal/domain/standing"
	"github.com/riskibarqy/cup-tracker/internal/domain/tournament"
)

type GroupTable struct {
	Name string
	Rows []standing.Row
}

// Board is everything the public page renders, derived from one pair of
// match and scorer snapshots.
type Board struct {
	Groups           []GroupTable
	Fixtures         []match.Match
	Knockout         []match.Match
	TopScorers       []scorer.Scorer
	CompletedMatches int
	TotalMatches     int
	GeneratedAt      time.Time
}

// BuildBoard derives standings and the leaderboard. It reads nothing and
// writes nothing.
func BuildBoard(layout tournament.Layout, matches []match.Match, scorers []scorer.Scorer, topN int, now time.Time) Board {
	groupMatches := match.Group(matches)
	board := Board{
		Groups:      make([]GroupTable, 0, len(layout.Groups)),
		Fixtures:    groupMatches,
		Knockout:    match.Knockout(matches),
		TopScorers:  scorer.Top(scorers, topN),
		GeneratedAt: now.UTC(),
	}
	for _, g := range layout.Groups {
		board.Groups = append(board.Groups, GroupTable{
			Name: g.Name,
			Rows: standing.Compute(g.Teams, groupMatches),
		})
	}
	for _, m := range matches {
		board.TotalMatches++
		if m.Completed {
			board.CompletedMatches++
		}
	}
	return board
}

type BoardService struct {
	matches match.Repository
	scorers scorer.Repository
	layout  tournament.Layout
	topN    int
	now     func() time.Time
}

func NewBoardService(matches match.Repository, scorers scorer.Repository, layout tournament.Layout, topN int) *BoardService {
	if topN <= 0 {
		topN = scorer.DefaultLeaderboardSize
	}
	return &BoardService{
		matches: matches,
		scorers: scorers,
		layout:  layout,
		topN:    topN,
		now:     time.Now,
	}
}

// Build derives a board from snapshots the caller already holds.
func (s *BoardService) Build(matches []match.Match, scorers []scorer.Scorer) Board {
	return BuildBoard(s.layout, matches, scorers, s.topN, s.now())
}

// Current reads both documents and derives a fresh board.
func (s *BoardService) Current(ctx context.Context) (Board, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.Current")
	defer span.End()

	matches, err := s.matches.List(ctx)
	if err != nil {
		err = storeReadError("list matches", err)
		recordSpanError(span, err)
		return Board{}, err
	}
	scorers, err := s.scorers.List(ctx)
	if err != nil {
		err = storeReadError("list scorers", err)
		recordSpanError(span, err)
		return Board{}, err
	}
	return s.Build(matches, scorers), nil
}

// Standings computes the table of one group.
func (s *BoardService) Standings(ctx context.Context, groupName string) (GroupTable, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.Standings")
	defer span.End()

	group, ok := s.layout.Group(groupName)
	if !ok {
		return GroupTable{}, fmt.Errorf("%w: group=%s", ErrNotFound, groupName)
	}

	matches, err := s.matches.List(ctx)
	if err != nil {
		err = storeReadError("list matches", err)
		recordSpanError(span, err)
		return GroupTable{}, err
	}
	return GroupTable{Name: group.Name, Rows: standing.Compute(group.Teams, match.Group(matches))}, nil
}
