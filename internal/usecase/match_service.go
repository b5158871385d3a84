package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/cup-tracker/internal/domain/match"
	"github.com/riskibarqy/cup-tracker/internal/domain/tournament"
	"github.com/riskibarqy/cup-tracker/internal/platform/logging"
)

// MatchUpdate reports the outcome of a lifecycle command. Applied is false
// when the target id is not in the current snapshot; nothing is written then.
type MatchUpdate struct {
	Match   match.Match
	Applied bool
}

// KnockoutInput is the raw form of a knockout result edit.
type KnockoutInput struct {
	HomeTeam  string
	AwayTeam  string
	HomeScore string
	AwayScore string
	Completed bool
}

type MatchService struct {
	repo   match.Repository
	layout tournament.Layout
	logger *logging.Logger
}

func NewMatchService(repo match.Repository, layout tournament.Layout, logger *logging.Logger) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		repo:   repo,
		layout: layout,
		logger: logger,
	}
}

func (s *MatchService) List(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.List")
	defer span.End()

	matches, err := s.repo.List(ctx)
	if err != nil {
		err = storeReadError("list matches", err)
		recordSpanError(span, err)
		return nil, err
	}
	return matches, nil
}

// SubmitScore records the result of a fixed match. Blank scores on both sides
// clear the result.
func (s *MatchService) SubmitScore(ctx context.Context, id int, homeScore, awayScore string, completed bool) (MatchUpdate, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.SubmitScore", attribute.Int("match.id", id))
	defer span.End()

	score, err := match.ParseScore(homeScore, awayScore)
	if err != nil {
		return MatchUpdate{}, invalidInput(err)
	}

	out, err := s.mutate(ctx, "submit score", id, func(matches []match.Match) ([]match.Match, match.Match, error) {
		return match.SubmitScore(matches, id, score, completed)
	})
	recordSpanError(span, err)
	return out, err
}

// Fix assigns the two teams of a knockout slot.
func (s *MatchService) Fix(ctx context.Context, id int, homeTeam, awayTeam string) (MatchUpdate, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Fix", attribute.Int("match.id", id))
	defer span.End()

	homeTeam = strings.TrimSpace(homeTeam)
	awayTeam = strings.TrimSpace(awayTeam)
	if err := s.validateTeams(homeTeam, awayTeam); err != nil {
		return MatchUpdate{}, err
	}

	out, err := s.mutate(ctx, "fix match", id, func(matches []match.Match) ([]match.Match, match.Match, error) {
		return match.Fix(matches, id, homeTeam, awayTeam)
	})
	recordSpanError(span, err)
	return out, err
}

// Reopen flips a completed knockout match back to editable.
func (s *MatchService) Reopen(ctx context.Context, id int) (MatchUpdate, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Reopen", attribute.Int("match.id", id))
	defer span.End()

	out, err := s.mutate(ctx, "reopen match", id, func(matches []match.Match) ([]match.Match, match.Match, error) {
		return match.Reopen(matches, id)
	})
	recordSpanError(span, err)
	return out, err
}

func (s *MatchService) UpdateKnockoutResult(ctx context.Context, id int, in KnockoutInput) (MatchUpdate, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.UpdateKnockoutResult", attribute.Int("match.id", id))
	defer span.End()

	in.HomeTeam = strings.TrimSpace(in.HomeTeam)
	in.AwayTeam = strings.TrimSpace(in.AwayTeam)
	if err := s.validateTeams(in.HomeTeam, in.AwayTeam); err != nil {
		return MatchUpdate{}, err
	}
	score, err := match.ParseScore(in.HomeScore, in.AwayScore)
	if err != nil {
		return MatchUpdate{}, invalidInput(err)
	}

	result := match.KnockoutResult{
		HomeTeam:  in.HomeTeam,
		AwayTeam:  in.AwayTeam,
		Score:     score,
		Completed: in.Completed,
	}
	out, err := s.mutate(ctx, "update knockout result", id, func(matches []match.Match) ([]match.Match, match.Match, error) {
		return match.UpdateKnockoutResult(matches, id, result)
	})
	recordSpanError(span, err)
	return out, err
}

func (s *MatchService) validateTeams(homeTeam, awayTeam string) error {
	if err := match.ValidatePairing(homeTeam, awayTeam); err != nil {
		return invalidInput(err)
	}
	for _, team := range []string{homeTeam, awayTeam} {
		if !s.layout.HasTeam(team) {
			return fmt.Errorf("%w: unknown team %q", ErrInvalidInput, team)
		}
	}
	return nil
}

// mutate reads the latest snapshot, applies fn and writes the full list back.
func (s *MatchService) mutate(
	ctx context.Context,
	op string,
	id int,
	fn func([]match.Match) ([]match.Match, match.Match, error),
) (MatchUpdate, error) {
	matches, err := s.repo.List(ctx)
	if err != nil {
		return MatchUpdate{}, storeReadError("list matches", err)
	}

	next, updated, err := fn(matches)
	switch {
	case errors.Is(err, match.ErrNotFound):
		s.logger.WarnContext(ctx, "match not in snapshot, ignoring command", "op", op, "match_id", id)
		return MatchUpdate{}, nil
	case err != nil:
		return MatchUpdate{}, invalidInput(err)
	}

	if err := s.repo.ReplaceAll(ctx, next); err != nil {
		s.logger.ErrorContext(ctx, "write matches failed", "op", op, "match_id", id, "error", err)
		return MatchUpdate{}, storeWriteError(op, err)
	}

	s.logger.InfoContext(ctx, "match updated",
		"op", op,
		"match_id", id,
		"fixed", updated.IsFixed(),
		"completed", updated.Completed,
	)
	return MatchUpdate{Match: updated, Applied: true}, nil
}
