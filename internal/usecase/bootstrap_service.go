package usecase

import (
	"context"

	"github.com/riskibarqy/cup-tracker/internal/domain/match"
	"github.com/riskibarqy/cup-tracker/internal/domain/scorer"
	"github.com/riskibarqy/cup-tracker/internal/platform/logging"
)

// Resetter replaces both documents in one store operation.
type Resetter interface {
	ResetAll(ctx context.Context, matches []match.Match, scorers []scorer.Scorer) error
}

type SeedResult struct {
	SeededMatches bool
	AddedKnockout bool
	SeededScorers bool
}

type BootstrapService struct {
	matches  match.Repository
	scorers  scorer.Repository
	resetter Resetter
	logger   *logging.Logger
}

func NewBootstrapService(matches match.Repository, scorers scorer.Repository, resetter Resetter, logger *logging.Logger) *BootstrapService {
	if logger == nil {
		logger = logging.Default()
	}
	return &BootstrapService{
		matches:  matches,
		scorers:  scorers,
		resetter: resetter,
		logger:   logger,
	}
}

// EnsureSeeded writes the seed list into an empty match document and appends
// missing knockout slots to a list saved before they existed. Existing
// entries are never rewritten.
func (s *BootstrapService) EnsureSeeded(ctx context.Context) (SeedResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BootstrapService.EnsureSeeded")
	defer span.End()

	matches, err := s.matches.List(ctx)
	if err != nil {
		err = storeReadError("list matches", err)
		recordSpanError(span, err)
		return SeedResult{}, err
	}

	var result SeedResult
	if len(matches) == 0 {
		if err := s.matches.ReplaceAll(ctx, match.SeedMatches()); err != nil {
			err = storeWriteError("seed matches", err)
			recordSpanError(span, err)
			return SeedResult{}, err
		}
		result.SeededMatches = true
		s.logger.InfoContext(ctx, "match document seeded", "matches", len(match.SeedMatches()))

		scorers, err := s.scorers.List(ctx)
		if err != nil {
			err = storeReadError("list scorers", err)
			recordSpanError(span, err)
			return result, err
		}
		if len(scorers) == 0 {
			if err := s.scorers.ReplaceAll(ctx, []scorer.Scorer{}); err != nil {
				err = storeWriteError("seed scorers", err)
				recordSpanError(span, err)
				return result, err
			}
			result.SeededScorers = true
		}
		return result, nil
	}

	migrated, added := match.EnsureKnockout(matches)
	if !added {
		return result, nil
	}
	if err := s.matches.ReplaceAll(ctx, migrated); err != nil {
		err = storeWriteError("add knockout matches", err)
		recordSpanError(span, err)
		return result, err
	}
	result.AddedKnockout = true
	s.logger.InfoContext(ctx, "knockout matches added", "matches", len(migrated))
	return result, nil
}

// Reset restores the seed match list and clears every scorer.
func (s *BootstrapService) Reset(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.BootstrapService.Reset")
	defer span.End()

	if err := s.resetter.ResetAll(ctx, match.SeedMatches(), []scorer.Scorer{}); err != nil {
		err = storeWriteError("reset tournament", err)
		recordSpanError(span, err)
		s.logger.ErrorContext(ctx, "reset failed", "error", err)
		return err
	}
	s.logger.WarnContext(ctx, "tournament reset to seed data")
	return nil
}
