package scorer

import "context"

// Repository reads and replaces the whole scorer list.
type Repository interface {
	List(ctx context.Context) ([]Scorer, error)
	ReplaceAll(ctx context.Context, scorers []Scorer) error
}

// Feed streams full scorer snapshots, starting with the current one.
type Feed interface {
	SubscribeScorers(ctx context.Context) (<-chan []Scorer, error)
}
