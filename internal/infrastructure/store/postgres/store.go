package postgres

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riskibarqy/cup-tracker/internal/domain/document"
	"github.com/riskibarqy/cup-tracker/internal/infrastructure/store/notify"
	"github.com/riskibarqy/cup-tracker/internal/platform/logging"
	qb "github.com/riskibarqy/cup-tracker/internal/platform/querybuilder"
	"github.com/riskibarqy/cup-tracker/internal/platform/resilience"
)

const (
	upsertSuffix = "ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, version = documents.version + 1, updated_at = EXCLUDED.updated_at RETURNING version"
	pingInterval = 90 * time.Second
)

type Config struct {
	DSN          string
	MinReconnect time.Duration
	MaxReconnect time.Duration
	Breaker      resilience.CircuitBreakerConfig
}

// Store keeps documents in a postgres table. Every write commits a
// pg_notify on the documents channel, and a pq.Listener turns those into
// snapshots for local subscribers, including writes from other instances.
type Store struct {
	db       *sqlx.DB
	hub      *notify.Broadcaster
	listener *pq.Listener
	breaker  *resilience.CircuitBreaker
	logger   *logging.Logger
	now      func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

func NewStore(db *sqlx.DB, cfg Config, logger *logging.Logger) (*Store, error) {
	if db == nil {
		return nil, crerr.New("postgres store requires a database handle")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MinReconnect <= 0 {
		cfg.MinReconnect = time.Second
	}
	if cfg.MaxReconnect < cfg.MinReconnect {
		cfg.MaxReconnect = time.Minute
	}

	s := &Store{
		db:      db,
		hub:     notify.New(),
		breaker: resilience.NewCircuitBreakerFromConfig(cfg.Breaker),
		logger:  logger.Named("store.postgres"),
		now:     time.Now,
		done:    make(chan struct{}),
	}

	s.listener = pq.NewListener(cfg.DSN, cfg.MinReconnect, cfg.MaxReconnect, s.onListenerEvent)
	if err := s.listener.Listen(documentChannel); err != nil {
		_ = s.listener.Close()
		return nil, crerr.Wrapf(err, "listen on %s", documentChannel)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.run(ctx)

	return s, nil
}

func (s *Store) Get(ctx context.Context, key string) (document.Snapshot, error) {
	if err := document.ValidateKey(key); err != nil {
		return document.Snapshot{}, err
	}

	query, args, err := qb.Select("key", "value", "version", "updated_at").
		From(documentsTable).
		Where(qb.Eq("key", key)).
		ToSQL()
	if err != nil {
		return document.Snapshot{}, crerr.Wrap(err, "build get document query")
	}

	var row documentTableModel
	err = s.breaker.Do(func() error {
		getErr := s.db.GetContext(ctx, &row, query, args...)
		if errors.Is(getErr, sql.ErrNoRows) {
			return nil
		}
		return getErr
	})
	if err != nil {
		return document.Snapshot{}, crerr.Wrapf(err, "get document %s", key)
	}
	if row.Key == "" {
		return document.Snapshot{Key: key}, nil
	}

	return document.Snapshot{
		Key:     key,
		Value:   []byte(row.Value),
		Version: row.Version,
		Exists:  true,
	}, nil
}

func (s *Store) Subscribe(ctx context.Context, key string) (<-chan document.Snapshot, error) {
	current, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.hub.Subscribe(ctx, key, current), nil
}

func (s *Store) Write(ctx context.Context, key string, value []byte) error {
	return s.WriteMany(ctx, map[string][]byte{key: value})
}

// WriteMany upserts every key in one transaction. Keys are written in sorted
// order so concurrent multi-key writes lock rows consistently.
func (s *Store) WriteMany(ctx context.Context, values map[string][]byte) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		if err := document.ValidateKey(key); err != nil {
			return err
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil
	}
	sort.Strings(keys)

	var written []document.Snapshot
	err := s.breaker.Do(func() error {
		var txErr error
		written, txErr = s.writeTx(ctx, keys, values)
		return txErr
	})
	if err != nil {
		return crerr.Wrapf(err, "write documents %v", keys)
	}

	for _, snap := range written {
		s.hub.Publish(snap)
	}
	return nil
}

func (s *Store) writeTx(ctx context.Context, keys []string, values map[string][]byte) ([]document.Snapshot, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "begin tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := s.now().UTC()
	out := make([]document.Snapshot, 0, len(keys))
	for _, key := range keys {
		query, args, err := qb.InsertModel(qb.Dollar, documentsTable, documentTableModel{
			Key:       key,
			Value:     string(values[key]),
			Version:   1,
			UpdatedAt: now,
		}, upsertSuffix)
		if err != nil {
			return nil, crerr.Wrap(err, "build upsert document query")
		}

		var version int64
		if err := tx.GetContext(ctx, &version, query, args...); err != nil {
			return nil, crerr.Wrapf(err, "upsert document %s", key)
		}
		if _, err := tx.ExecContext(ctx, "SELECT pg_notify($1, $2)", documentChannel, key); err != nil {
			return nil, crerr.Wrapf(err, "notify document %s", key)
		}

		out = append(out, document.Snapshot{
			Key:     key,
			Value:   append([]byte(nil), values[key]...),
			Version: version,
			Exists:  true,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, crerr.Wrap(err, "commit documents")
	}
	return out, nil
}

func (s *Store) Close() error {
	s.cancel()
	<-s.done
	s.hub.Close()

	var errs []error
	if err := s.listener.Close(); err != nil {
		errs = append(errs, crerr.Wrap(err, "close listener"))
	}
	if err := s.db.Close(); err != nil {
		errs = append(errs, crerr.Wrap(err, "close db"))
	}
	return errors.Join(errs...)
}

func (s *Store) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-s.listener.Notify:
			if !ok {
				return
			}
			if n == nil {
				// pq sends nil after a reconnect; notifications may have been lost.
				s.refresh(ctx, s.hub.Keys()...)
				continue
			}
			s.refresh(ctx, n.Extra)
		case <-ticker.C:
			if err := s.listener.Ping(); err != nil {
				s.logger.WarnContext(ctx, "listener ping failed", "error", err)
			}
		}
	}
}

func (s *Store) refresh(ctx context.Context, keys ...string) {
	for _, key := range keys {
		snap, err := s.Get(ctx, key)
		if err != nil {
			s.logger.WarnContext(ctx, "refresh document after notify failed", "key", key, "error", err)
			continue
		}
		s.hub.Publish(snap)
	}
}

func (s *Store) onListenerEvent(ev pq.ListenerEventType, err error) {
	switch ev {
	case pq.ListenerEventConnected:
		s.logger.Info("document listener connected")
	case pq.ListenerEventReconnected:
		s.logger.Info("document listener reconnected")
	case pq.ListenerEventDisconnected:
		s.logger.Warn("document listener disconnected", "error", err)
	case pq.ListenerEventConnectionAttemptFailed:
		s.logger.Warn("document listener connection attempt failed", "error", err)
	}
}
