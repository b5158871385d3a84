package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/riskibarqy/cup-tracker/internal/domain/document"
	"github.com/riskibarqy/cup-tracker/internal/infrastructure/store/notify"
	"github.com/riskibarqy/cup-tracker/internal/platform/dbconn"
	"github.com/riskibarqy/cup-tracker/internal/platform/logging"
	qb "github.com/riskibarqy/cup-tracker/internal/platform/querybuilder"
)

const (
	driverName   = "sqlite"
	upsertSuffix = "ON CONFLICT (key) DO UPDATE SET value = excluded.value, version = documents.version + 1, updated_at = excluded.updated_at RETURNING version"
)

// Store persists documents in a local SQLite file. Change notifications are
// process-local.
type Store struct {
	db     *sqlx.DB
	hub    *notify.Broadcaster
	logger *logging.Logger
	now    func() time.Time
}

// Open creates the parent directory and schema if needed. Use ":memory:" for
// a throwaway database.
func Open(ctx context.Context, path string, logger *logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, crerr.Wrap(err, "create sqlite directory")
		}
	}

	db, err := dbconn.Open(ctx, dbconn.Options{
		Driver:       driverName,
		DSN:          path,
		DBName:       filepath.Base(path),
		MaxOpenConns: 1,
	})
	if err != nil {
		return nil, err
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, crerr.Wrap(err, "apply sqlite schema")
		}
	}

	logger.Named("store.sqlite").InfoContext(ctx, "sqlite document store ready", "path", path)
	return &Store{
		db:     db,
		hub:    notify.New(),
		logger: logger.Named("store.sqlite"),
		now:    time.Now,
	}, nil
}

func (s *Store) Get(ctx context.Context, key string) (document.Snapshot, error) {
	if err := document.ValidateKey(key); err != nil {
		return document.Snapshot{}, err
	}

	query, args, err := qb.Select("key", "value", "version").
		Dialect(qb.Question).
		From(documentsTable).
		Where(qb.Eq("key", key)).
		ToSQL()
	if err != nil {
		return document.Snapshot{}, crerr.Wrap(err, "build get document query")
	}

	var row documentTableModel
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return document.Snapshot{Key: key}, nil
		}
		return document.Snapshot{}, crerr.Wrapf(err, "get document %s", key)
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

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := s.now().UTC()
	written := make([]document.Snapshot, 0, len(keys))
	for _, key := range keys {
		query, args, err := qb.InsertModel(qb.Question, documentsTable, documentTableModel{
			Key:       key,
			Value:     string(values[key]),
			Version:   1,
			UpdatedAt: now,
		}, upsertSuffix)
		if err != nil {
			return crerr.Wrap(err, "build upsert document query")
		}

		var version int64
		if err := tx.GetContext(ctx, &version, query, args...); err != nil {
			return crerr.Wrapf(err, "upsert document %s", key)
		}
		written = append(written, document.Snapshot{
			Key:     key,
			Value:   append([]byte(nil), values[key]...),
			Version: version,
			Exists:  true,
		})
	}

	if err := tx.Commit(); err != nil {
		return crerr.Wrap(err, "commit documents")
	}

	for _, snap := range written {
		s.hub.Publish(snap)
	}
	return nil
}

func (s *Store) Close() error {
	s.hub.Close()
	if err := s.db.Close(); err != nil {
		return crerr.Wrap(err, "close sqlite")
	}
	return nil
}
