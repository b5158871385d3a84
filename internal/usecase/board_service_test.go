package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/cup-tracker/internal/domain/match"
	"github.com/riskibarqy/cup-tracker/internal/domain/scorer"
	"github.com/riskibarqy/cup-tracker/internal/domain/tournament"
	documentrepo "github.com/riskibarqy/cup-tracker/internal/infrastructure/repository/document"
	"github.com/riskibarqy/cup-tracker/internal/infrastructure/store/memory"
	"github.com/riskibarqy/cup-tracker/internal/platform/logging"
)

type testBackend struct {
	store    *memory.Store
	matches  *documentrepo.MatchRepository
	scorers  *documentrepo.ScorerRepository
	resetter *documentrepo.Resetter
}

func newTestBackend() testBackend {
	store := memory.NewStore()
	return testBackend{
		store:    store,
		matches:  documentrepo.NewMatchRepository(store, logging.NewNop()),
		scorers:  documentrepo.NewScorerRepository(store, logging.NewNop()),
		resetter: documentrepo.NewResetter(store),
	}
}

func TestBuildBoard_GroupStageScenario(t *testing.T) {
	t.Parallel()

	matches := match.SeedMatches()
	matches[0].HomeScore, matches[0].AwayScore, matches[0].Completed = intRef(3), intRef(1), true
	matches[1].HomeScore, matches[1].AwayScore, matches[1].Completed = intRef(2), intRef(2), true

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	board := BuildBoard(tournament.DefaultLayout(), matches, nil, 5, now)

	if len(board.Groups) != 2 || board.Groups[0].Name != "A" {
		t.Fatalf("unexpected groups: %+v", board.Groups)
	}
	rows := board.Groups[0].Rows
	if rows[0].Team != "Real Madrid" || rows[0].Points != 3 || rows[0].GoalDifference != 2 {
		t.Fatalf("unexpected leader: %+v", rows[0])
	}
	if rows[1].Team != "PSG" || rows[1].Drawn != 1 || rows[1].Points != 1 {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
	if rows[2].Team != "Milan" || rows[2].Played != 0 {
		t.Fatalf("unexpected third row: %+v", rows[2])
	}
	if len(board.Fixtures) != 9 || len(board.Knockout) != 3 {
		t.Fatalf("unexpected split: fixtures=%d knockout=%d", len(board.Fixtures), len(board.Knockout))
	}
	if board.CompletedMatches != 2 || board.TotalMatches != 12 {
		t.Fatalf("unexpected progress %d/%d", board.CompletedMatches, board.TotalMatches)
	}
	if board.GeneratedAt.Location() != time.UTC {
		t.Fatalf("board timestamp should be UTC")
	}
}

func TestBuildBoard_KnockoutResultsStayOutOfGroupTables(t *testing.T) {
	t.Parallel()

	seed := match.SeedMatches()
	layout := tournament.DefaultLayout()
	before := BuildBoard(layout, seed, nil, 5, time.Now())

	fixed, _, err := match.Fix(seed, match.SemiFinal1ID, "Real Madrid", "Barcelona")
	if err != nil {
		t.Fatalf("fix: %v", err)
	}
	played, _, err := match.SubmitScore(fixed, match.SemiFinal1ID, match.Score{Home: intRef(4), Away: intRef(0)}, true)
	if err != nil {
		t.Fatalf("submit score: %v", err)
	}

	after := BuildBoard(layout, played, nil, 5, time.Now())
	for i, group := range after.Groups {
		for j, row := range group.Rows {
			if row != before.Groups[i].Rows[j] {
				t.Fatalf("group %s row changed by a knockout result: %+v", group.Name, row)
			}
			if row.Played != 0 {
				t.Fatalf("no group match was played: %+v", row)
			}
		}
	}
	if after.CompletedMatches != 1 {
		t.Fatalf("knockout result still counts toward progress, got %d", after.CompletedMatches)
	}

	ctx := context.Background()
	backend := newTestBackend()
	if err := backend.matches.ReplaceAll(ctx, played); err != nil {
		t.Fatalf("prime: %v", err)
	}
	table, err := NewBoardService(backend.matches, backend.scorers, layout, 5).Standings(ctx, "A")
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	for _, row := range table.Rows {
		if row.Played != 0 || row.GoalsFor != 0 {
			t.Fatalf("standings must ignore knockout matches: %+v", row)
		}
	}
}

func TestBoardService_CurrentAndStandings(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := newTestBackend()
	if err := backend.matches.ReplaceAll(ctx, match.SeedMatches()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := backend.scorers.ReplaceAll(ctx, []scorer.Scorer{
		{Name: "Leao", Team: "Milan", Goals: 1},
		{Name: "Palmer", Team: "Chelsea", Goals: 2},
	}); err != nil {
		t.Fatalf("seed scorers: %v", err)
	}

	service := NewBoardService(backend.matches, backend.scorers, tournament.DefaultLayout(), 1)
	board, err := service.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if len(board.TopScorers) != 1 || board.TopScorers[0].Name != "Palmer" {
		t.Fatalf("unexpected top scorers: %+v", board.TopScorers)
	}

	table, err := service.Standings(ctx, "b")
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	if table.Name != "B" || len(table.Rows) != 3 || table.Rows[0].Team != "Man. City" {
		t.Fatalf("unexpected table: %+v", table)
	}

	if _, err := service.Standings(ctx, "Z"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func intRef(v int) *int {
	return &v
}
