package app

import (
	"context"
	"testing"

	"github.com/riskibarqy/cup-tracker/internal/config"
	"github.com/riskibarqy/cup-tracker/internal/domain/match"
	documentrepo "github.com/riskibarqy/cup-tracker/internal/infrastructure/repository/document"
	"github.com/riskibarqy/cup-tracker/internal/platform/logging"
)

func TestRun_MigratesLegacyMatchDocument(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a, err := New(ctx, config.Config{
		HTTPAddr:    "127.0.0.1:0",
		StoreDriver: config.StoreMemory,
	}, logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	repo := documentrepo.NewMatchRepository(a.store, logging.NewNop())
	if err := repo.ReplaceAll(ctx, match.Group(match.SeedMatches())); err != nil {
		t.Fatalf("prime legacy list: %v", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	cancel()
	if err := a.Run(runCtx); err != nil {
		t.Fatalf("run: %v", err)
	}

	matches, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(matches) != 12 {
		t.Fatalf("expected 12 matches after startup, got %d", len(matches))
	}
	for _, id := range []int{match.SemiFinal1ID, match.SemiFinal2ID, match.FinalID} {
		if match.IndexOf(matches, id) < 0 {
			t.Fatalf("knockout slot %d missing", id)
		}
	}
}
