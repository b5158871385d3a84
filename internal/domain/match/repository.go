package match

import "context"

// Repository reads and replaces the whole match list.
type Repository interface {
	List(ctx context.Context) ([]Match, error)
	ReplaceAll(ctx context.Context, matches []Match) error
}

// Feed streams full match snapshots, starting with the current one.
type Feed interface {
	SubscribeMatches(ctx context.Context) (<-chan []Match, error)
}
