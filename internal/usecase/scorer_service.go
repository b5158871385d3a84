package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/cup-tracker/internal/domain/scorer"
	"github.com/riskibarqy/cup-tracker/internal/domain/tournament"
	"github.com/riskibarqy/cup-tracker/internal/platform/logging"
)

type ScorerInput struct {
	Name  string
	Team  string
	Goals int
}

// ScorerUpdate describes one applied roster change. Index is the position of
// the entry in the stored list.
type ScorerUpdate struct {
	Scorer  scorer.Scorer
	Index   int
	Created bool
}

type ScorerServiceConfig struct {
	MatchMode       scorer.MatchMode
	LeaderboardSize int
}

type ScorerService struct {
	repo   scorer.Repository
	layout tournament.Layout
	cfg    ScorerServiceConfig
	logger *logging.Logger
}

func NewScorerService(repo scorer.Repository, layout tournament.Layout, cfg ScorerServiceConfig, logger *logging.Logger) *ScorerService {
	if cfg.MatchMode == "" {
		cfg.MatchMode = scorer.MatchCaseInsensitive
	}
	if cfg.LeaderboardSize <= 0 {
		cfg.LeaderboardSize = scorer.DefaultLeaderboardSize
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ScorerService{
		repo:   repo,
		layout: layout,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *ScorerService) List(ctx context.Context) ([]scorer.Scorer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScorerService.List")
	defer span.End()

	scorers, err := s.repo.List(ctx)
	if err != nil {
		err = storeReadError("list scorers", err)
		recordSpanError(span, err)
		return nil, err
	}
	return scorers, nil
}

// Add records a scorer, or overwrites the goal tally of the entry that already
// names the same player for the same team.
func (s *ScorerService) Add(ctx context.Context, in ScorerInput) (ScorerUpdate, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScorerService.Add")
	defer span.End()

	candidate, err := s.validate(in)
	if err != nil {
		return ScorerUpdate{}, err
	}

	scorers, err := s.repo.List(ctx)
	if err != nil {
		err = storeReadError("list scorers", err)
		recordSpanError(span, err)
		return ScorerUpdate{}, err
	}

	next, created, err := scorer.Upsert(scorers, candidate, s.cfg.MatchMode)
	if err != nil {
		return ScorerUpdate{}, invalidInput(err)
	}
	if err := s.write(ctx, "add scorer", next); err != nil {
		recordSpanError(span, err)
		return ScorerUpdate{}, err
	}

	idx := scorer.IndexOf(next, candidate, s.cfg.MatchMode)
	s.logger.InfoContext(ctx, "scorer saved",
		"name", next[idx].Name,
		"team", next[idx].Team,
		"goals", next[idx].Goals,
		"created", created,
	)
	return ScorerUpdate{Scorer: next[idx], Index: idx, Created: created}, nil
}

// UpdateAt overwrites the entry at index.
func (s *ScorerService) UpdateAt(ctx context.Context, index int, in ScorerInput) (ScorerUpdate, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScorerService.UpdateAt", attribute.Int("scorer.index", index))
	defer span.End()

	candidate, err := s.validate(in)
	if err != nil {
		return ScorerUpdate{}, err
	}

	scorers, err := s.repo.List(ctx)
	if err != nil {
		err = storeReadError("list scorers", err)
		recordSpanError(span, err)
		return ScorerUpdate{}, err
	}

	next, err := scorer.ReplaceAt(scorers, index, candidate, s.cfg.MatchMode)
	if err != nil {
		return ScorerUpdate{}, s.rosterError(err)
	}
	if err := s.write(ctx, "update scorer", next); err != nil {
		recordSpanError(span, err)
		return ScorerUpdate{}, err
	}
	return ScorerUpdate{Scorer: next[index], Index: index}, nil
}

func (s *ScorerService) DeleteAt(ctx context.Context, index int) (scorer.Scorer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScorerService.DeleteAt", attribute.Int("scorer.index", index))
	defer span.End()

	scorers, err := s.repo.List(ctx)
	if err != nil {
		err = storeReadError("list scorers", err)
		recordSpanError(span, err)
		return scorer.Scorer{}, err
	}

	next, removed, err := scorer.DeleteAt(scorers, index)
	if err != nil {
		return scorer.Scorer{}, s.rosterError(err)
	}
	if err := s.write(ctx, "delete scorer", next); err != nil {
		recordSpanError(span, err)
		return scorer.Scorer{}, err
	}

	s.logger.InfoContext(ctx, "scorer deleted", "name", removed.Name, "team", removed.Team)
	return removed, nil
}

// Leaderboard returns the top limit scorers; limit <= 0 uses the configured
// size.
func (s *ScorerService) Leaderboard(ctx context.Context, limit int) ([]scorer.Scorer, error) {
	scorers, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.cfg.LeaderboardSize
	}
	return scorer.Top(scorers, limit), nil
}

// Names feeds the player name autocomplete.
func (s *ScorerService) Names(ctx context.Context) ([]string, error) {
	scorers, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return scorer.Names(scorers), nil
}

func (s *ScorerService) validate(in ScorerInput) (scorer.Scorer, error) {
	candidate, err := scorer.Normalize(scorer.Scorer{Name: in.Name, Team: in.Team, Goals: in.Goals})
	if err != nil {
		return scorer.Scorer{}, invalidInput(err)
	}
	if !s.layout.HasTeam(candidate.Team) {
		return scorer.Scorer{}, fmt.Errorf("%w: unknown team %q", ErrInvalidInput, strings.TrimSpace(in.Team))
	}
	return candidate, nil
}

func (s *ScorerService) rosterError(err error) error {
	if errors.Is(err, scorer.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return invalidInput(err)
}

func (s *ScorerService) write(ctx context.Context, op string, scorers []scorer.Scorer) error {
	if err := s.repo.ReplaceAll(ctx, scorers); err != nil {
		s.logger.ErrorContext(ctx, "write scorers failed", "op", op, "error", err)
		return storeWriteError(op, err)
	}
	return nil
}
