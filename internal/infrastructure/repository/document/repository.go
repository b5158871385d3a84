package document

import (
	"context"
	"fmt"

	domaindoc "github.com/riskibarqy/cup-tracker/internal/domain/document"
	"github.com/riskibarqy/cup-tracker/internal/domain/match"
	"github.com/riskibarqy/cup-tracker/internal/domain/scorer"
	"github.com/riskibarqy/cup-tracker/internal/platform/logging"
)

// MatchRepository stores the match list as one JSON document.
type MatchRepository struct {
	store  domaindoc.Store
	logger *logging.Logger
}

func NewMatchRepository(store domaindoc.Store, logger *logging.Logger) *MatchRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchRepository{store: store, logger: logger}
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	snap, err := r.store.Get(ctx, domaindoc.KeyMatches)
	if err != nil {
		return nil, fmt.Errorf("get matches document: %w", err)
	}
	out, err := decodeMatches(snap.Value)
	if err != nil {
		return nil, fmt.Errorf("decode matches document: %w", err)
	}
	return out, nil
}

func (r *MatchRepository) ReplaceAll(ctx context.Context, matches []match.Match) error {
	data, err := encodeMatches(matches)
	if err != nil {
		return err
	}
	if err := r.store.Write(ctx, domaindoc.KeyMatches, data); err != nil {
		return fmt.Errorf("write matches document: %w", err)
	}
	return nil
}

// SubscribeMatches decodes each snapshot. Undecodable snapshots are logged
// and skipped so one bad write does not end the feed.
func (r *MatchRepository) SubscribeMatches(ctx context.Context) (<-chan []match.Match, error) {
	return subscribe(ctx, r.store, domaindoc.KeyMatches, decodeMatches, r.logger)
}

// ScorerRepository stores the scorer list as one JSON document.
type ScorerRepository struct {
	store  domaindoc.Store
	logger *logging.Logger
}

func NewScorerRepository(store domaindoc.Store, logger *logging.Logger) *ScorerRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScorerRepository{store: store, logger: logger}
}

func (r *ScorerRepository) List(ctx context.Context) ([]scorer.Scorer, error) {
	snap, err := r.store.Get(ctx, domaindoc.KeyScorers)
	if err != nil {
		return nil, fmt.Errorf("get scorers document: %w", err)
	}
	out, err := decodeScorers(snap.Value)
	if err != nil {
		return nil, fmt.Errorf("decode scorers document: %w", err)
	}
	return out, nil
}

func (r *ScorerRepository) ReplaceAll(ctx context.Context, scorers []scorer.Scorer) error {
	data, err := encodeScorers(scorers)
	if err != nil {
		return err
	}
	if err := r.store.Write(ctx, domaindoc.KeyScorers, data); err != nil {
		return fmt.Errorf("write scorers document: %w", err)
	}
	return nil
}

func (r *ScorerRepository) SubscribeScorers(ctx context.Context) (<-chan []scorer.Scorer, error) {
	return subscribe(ctx, r.store, domaindoc.KeyScorers, decodeScorers, r.logger)
}

// Resetter replaces both documents in one write.
type Resetter struct {
	store domaindoc.Store
}

func NewResetter(store domaindoc.Store) *Resetter {
	return &Resetter{store: store}
}

func (r *Resetter) ResetAll(ctx context.Context, matches []match.Match, scorers []scorer.Scorer) error {
	matchData, err := encodeMatches(matches)
	if err != nil {
		return err
	}
	scorerData, err := encodeScorers(scorers)
	if err != nil {
		return err
	}

	if err := r.store.WriteMany(ctx, map[string][]byte{
		domaindoc.KeyMatches: matchData,
		domaindoc.KeyScorers: scorerData,
	}); err != nil {
		return fmt.Errorf("reset documents: %w", err)
	}
	return nil
}

func subscribe[T any](
	ctx context.Context,
	store domaindoc.Store,
	key string,
	decode func([]byte) ([]T, error),
	logger *logging.Logger,
) (<-chan []T, error) {
	in, err := store.Subscribe(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s document: %w", key, err)
	}

	out := make(chan []T, 1)
	go func() {
		defer close(out)
		for snap := range in {
			items, err := decode(snap.Value)
			if err != nil {
				logger.WarnContext(ctx, "skip undecodable document snapshot", "key", key, "version", snap.Version, "error", err)
				continue
			}
			select {
			case out <- items:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
