package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc"

	"github.com/riskibarqy/cup-tracker/internal/config"
	"github.com/riskibarqy/cup-tracker/internal/domain/document"
	"github.com/riskibarqy/cup-tracker/internal/domain/tournament"
	documentrepo "github.com/riskibarqy/cup-tracker/internal/infrastructure/repository/document"
	"github.com/riskibarqy/cup-tracker/internal/infrastructure/store/cached"
	"github.com/riskibarqy/cup-tracker/internal/infrastructure/store/memory"
	"github.com/riskibarqy/cup-tracker/internal/infrastructure/store/postgres"
	"github.com/riskibarqy/cup-tracker/internal/infrastructure/store/sqlite"
	"github.com/riskibarqy/cup-tracker/internal/interfaces/httpapi"
	"github.com/riskibarqy/cup-tracker/internal/interfaces/live"
	basecache "github.com/riskibarqy/cup-tracker/internal/platform/cache"
	"github.com/riskibarqy/cup-tracker/internal/platform/dbconn"
	"github.com/riskibarqy/cup-tracker/internal/platform/logging"
	"github.com/riskibarqy/cup-tracker/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// App owns the document store, the live hub, the board watcher and the HTTP
// server for one process.
type App struct {
	cfg       config.Config
	logger    *logging.Logger
	store     document.Store
	hub       *live.Hub
	bootstrap *usecase.BootstrapService
	watcher   *usecase.BoardWatcher
	server    *http.Server
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	layout := tournament.DefaultLayout()
	matchRepo := documentrepo.NewMatchRepository(store, logger)
	scorerRepo := documentrepo.NewScorerRepository(store, logger)

	matchSvc := usecase.NewMatchService(matchRepo, layout, logger)
	scorerSvc := usecase.NewScorerService(scorerRepo, layout, usecase.ScorerServiceConfig{
		MatchMode:       cfg.ScorerNameMatch,
		LeaderboardSize: cfg.LeaderboardSize,
	}, logger)
	boardSvc := usecase.NewBoardService(matchRepo, scorerRepo, layout, cfg.LeaderboardSize)
	bootstrapSvc := usecase.NewBootstrapService(matchRepo, scorerRepo, documentrepo.NewResetter(store), logger)

	hub := live.NewHub(cfg.CORSAllowedOrigins, logger)
	watcher := usecase.NewBoardWatcher(
		matchRepo,
		scorerRepo,
		boardSvc,
		bootstrapSvc,
		httpapi.NewBoardPublisher(hub, logger),
		usecase.BoardWatcherConfig{RefreshInterval: cfg.BoardRefreshInterval},
		logger,
	)

	handler := httpapi.NewHandler(matchSvc, scorerSvc, boardSvc, bootstrapSvc, logger)
	router := httpapi.NewRouter(handler, hub, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	return &App{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		hub:       hub,
		bootstrap: bootstrapSvc,
		watcher:   watcher,
		server: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}, nil
}

// Run seeds or migrates the match document, then serves HTTP and drives the
// board watcher until ctx is done or either of them fails.
func (a *App) Run(ctx context.Context) error {
	seeded, err := a.bootstrap.EnsureSeeded(ctx)
	if err != nil {
		_ = a.hub.Close()
		return crerr.Wrap(err, "prepare documents")
	}
	a.logger.Info("documents ready",
		"seeded_matches", seeded.SeededMatches,
		"added_knockout", seeded.AddedKnockout,
		"seeded_scorers", seeded.SeededScorers,
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	var wg conc.WaitGroup

	wg.Go(func() {
		a.logger.Info("http server starting", "addr", a.cfg.HTTPAddr, "store", a.cfg.StoreDriver)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- crerr.Wrap(err, "http server")
		}
	})
	wg.Go(func() {
		if err := a.watcher.Run(ctx); err != nil {
			errCh <- crerr.Wrap(err, "board watcher")
		}
	})

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		a.logger.Error("component failed", "error", runErr)
	}
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("graceful shutdown failed", "error", err)
		runErr = errors.Join(runErr, err)
	}
	if err := a.hub.Close(); err != nil {
		a.logger.Warn("close live hub failed", "error", err)
	}

	wg.Wait()
	a.logger.Info("http server stopped")
	return runErr
}

func (a *App) Close() error {
	return a.store.Close()
}

func openStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (document.Store, error) {
	var (
		store document.Store
		err   error
	)

	switch cfg.StoreDriver {
	case config.StoreSQLite:
		store, err = sqlite.Open(ctx, cfg.SQLitePath, logger)
	case config.StorePostgres:
		store, err = openPostgres(ctx, cfg, logger)
	default:
		store = memory.NewStore()
	}
	if err != nil {
		return nil, err
	}

	if !cfg.CacheEnabled {
		return store, nil
	}
	logger.Info("document cache enabled", "ttl", cfg.CacheTTL.String())
	return cached.NewStore(store, basecache.NewStore[document.Snapshot](cfg.CacheTTL)), nil
}

func openPostgres(ctx context.Context, cfg config.Config, logger *logging.Logger) (document.Store, error) {
	dsn := dbconn.NormalizeURL(cfg.DBURL, cfg.DBBinaryParameters)
	db, err := dbconn.Open(ctx, dbconn.Options{
		Driver:       "postgres",
		DSN:          dsn,
		DBName:       dbconn.NameFromURL(dsn),
		MaxOpenConns: cfg.DBMaxOpenConns,
	})
	if err != nil {
		return nil, err
	}

	store, err := postgres.NewStore(db, postgres.Config{
		DSN:          dsn,
		MinReconnect: cfg.StoreListenMinReconnect,
		MaxReconnect: cfg.StoreListenMaxReconnect,
		Breaker:      cfg.StoreCircuit,
	}, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}
