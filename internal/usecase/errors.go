package usecase

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/cup-tracker/internal/domain/match"
	"github.com/riskibarqy/cup-tracker/internal/domain/scorer"
	"github.com/riskibarqy/cup-tracker/internal/platform/resilience"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrStoreWrite            = errors.New("store write failed")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// invalidInput lifts a domain validation error into ErrInvalidInput while
// keeping the domain sentinel in the chain.
func invalidInput(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, match.ErrValidation) || errors.Is(err, scorer.ErrValidation) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

func storeReadError(op string, err error) error {
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return fmt.Errorf("%s: %w: %w", op, ErrDependencyUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func storeWriteError(op string, err error) error {
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return fmt.Errorf("%s: %w: %w", op, ErrDependencyUnavailable, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreWrite, err)
}
