package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/riskibarqy/cup-tracker/internal/domain/match"
	"github.com/riskibarqy/cup-tracker/internal/domain/scorer"
	"github.com/riskibarqy/cup-tracker/internal/platform/logging"
)

var errFeedClosed = errors.New("document feed closed")

// BoardPublisher receives every board the watcher derives.
type BoardPublisher interface {
	PublishBoard(ctx context.Context, board Board)
}

type BoardWatcherConfig struct {
	RefreshInterval time.Duration
}

// BoardWatcher keeps the latest match and scorer snapshots and republishes
// the derived board on every change and on each refresh tick.
type BoardWatcher struct {
	matchFeed  match.Feed
	scorerFeed scorer.Feed
	board      *BoardService
	bootstrap  *BootstrapService
	publisher  BoardPublisher
	cfg        BoardWatcherConfig
	logger     *logging.Logger
}

func NewBoardWatcher(
	matchFeed match.Feed,
	scorerFeed scorer.Feed,
	board *BoardService,
	bootstrap *BootstrapService,
	publisher BoardPublisher,
	cfg BoardWatcherConfig,
	logger *logging.Logger,
) *BoardWatcher {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 5 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &BoardWatcher{
		matchFeed:  matchFeed,
		scorerFeed: scorerFeed,
		board:      board,
		bootstrap:  bootstrap,
		publisher:  publisher,
		cfg:        cfg,
		logger:     logger.Named("board_watcher"),
	}
}

// Run blocks until ctx is cancelled or a feed closes.
func (w *BoardWatcher) Run(ctx context.Context) error {
	matchCh, err := w.matchFeed.SubscribeMatches(ctx)
	if err != nil {
		return storeReadError("subscribe matches", err)
	}
	scorerCh, err := w.scorerFeed.SubscribeScorers(ctx)
	if err != nil {
		return storeReadError("subscribe scorers", err)
	}

	ticker := time.NewTicker(w.cfg.RefreshInterval)
	defer ticker.Stop()

	var (
		matches     []match.Match
		scorers     []scorer.Scorer
		haveMatches bool
		haveScorers bool
	)
	publish := func() {
		if haveMatches && haveScorers {
			w.publisher.PublishBoard(ctx, w.board.Build(matches, scorers))
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case next, ok := <-matchCh:
			if !ok {
				return w.closed(ctx, "matches")
			}
			if len(next) == 0 || len(match.Knockout(next)) == 0 {
				// Seeding writes a new snapshot which arrives on this channel.
				if _, err := w.bootstrap.EnsureSeeded(ctx); err != nil {
					w.logger.ErrorContext(ctx, "seed match document failed", "error", err, "matches", len(next))
				}
			}
			matches, haveMatches = next, true
			publish()
		case next, ok := <-scorerCh:
			if !ok {
				return w.closed(ctx, "scorers")
			}
			scorers, haveScorers = next, true
			publish()
		case <-ticker.C:
			board, err := w.board.Current(ctx)
			if err != nil {
				w.logger.WarnContext(ctx, "periodic board refresh failed", "error", err)
				continue
			}
			w.publisher.PublishBoard(ctx, board)
		}
	}
}

func (w *BoardWatcher) closed(ctx context.Context, feed string) error {
	if ctx.Err() != nil {
		return nil
	}
	w.logger.Error("document feed closed unexpectedly", "feed", feed)
	return errFeedClosed
}
