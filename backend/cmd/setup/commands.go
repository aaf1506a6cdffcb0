package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"instavibe/backend/internal/graph"
	"instavibe/backend/internal/schema"
	"instavibe/backend/internal/seed"
	"instavibe/backend/internal/store"
	"instavibe/backend/internal/store/connect"
	"instavibe/backend/pkg/config"
	apperrors "instavibe/backend/pkg/errors"
	"instavibe/backend/pkg/logger"
)

type setupOptions struct {
	backend string
	fixture string
}

// app carries what every subcommand needs. openStore and connectGraph are
// fields so tests can substitute fakes.
type app struct {
	opts setupOptions
	cfg  *config.Config
	log  *zap.Logger

	openStore    func(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.Store, error)
	connectGraph func(ctx context.Context, cfg *config.Config, log *zap.Logger) (projector, error)
	loadConfig   func() (*config.Config, error)
}

// projector is the part of the Neo4j repository the project command uses
type projector interface {
	EnsureConstraints(ctx context.Context, snap *graph.Snapshot) error
	Project(ctx context.Context, snap *graph.Snapshot) (graph.ProjectResult, error)
	Close() error
}

func newApp() *app {
	return &app{
		openStore:    connect.Open,
		connectGraph: connectNeo4j,
		loadConfig:   config.Load,
	}
}

func connectNeo4j(ctx context.Context, cfg *config.Config, log *zap.Logger) (projector, error) {
	if cfg.Neo4jURI == "" {
		return nil, apperrors.NewConfigMissingRequired("NEO4J_URI")
	}
	repo, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword, log)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

func (a *app) sync() {
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "setup",
		Short:         "Create the InstaVibe schema and load the curated dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAll(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&a.opts.backend, "backend", "", "Database backend: spanner or postgres (overrides DB_BACKEND)")
	root.PersistentFlags().StringVar(&a.opts.fixture, "fixture", "", "TOML fixture to load instead of the embedded dataset (overrides SEED_FIXTURE)")

	root.AddCommand(
		&cobra.Command{
			Use:   "schema",
			Short: "Apply base tables, indexes and the property graph",
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withStore(cmd.Context(), a.applySchema)
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Insert the curated dataset in one transaction",
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withStore(cmd.Context(), a.seed)
			},
		},
		&cobra.Command{
			Use:   "all",
			Short: "Apply the schema, then seed",
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runAll(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "project",
			Short: "Copy the social graph into Neo4j",
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withStore(cmd.Context(), a.project)
			},
		},
	)
	return root
}

// init loads configuration and the logger, applies flag overrides and only
// then validates, so --backend can pick a backend the environment does not
// fully configure.
func (a *app) init() error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if a.opts.backend != "" {
		cfg.Backend = a.opts.backend
	}
	if a.opts.fixture != "" {
		cfg.SeedFixture = a.opts.fixture
	}
	a.cfg = cfg

	if a.log == nil {
		if err := logger.Init(cfg.Env); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		a.log = logger.Get()
	}

	if err := cfg.Validate(); err != nil {
		a.log.Error("Invalid configuration", zap.String("backend", cfg.Backend), zap.Error(err))
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// withStore opens the configured database, runs fn and reports the outcome
func (a *app) withStore(ctx context.Context, fn func(ctx context.Context, db store.Store) error) error {
	db, err := a.openStore(ctx, a.cfg, a.log)
	if err != nil {
		a.log.Error("Could not connect to the database", zap.String("backend", a.cfg.Backend), zap.Error(err))
		return err
	}
	defer db.Close()

	a.log.Info("Connected", zap.String("backend", db.Backend()))
	if err := fn(ctx, db); err != nil {
		if apperrors.IsRetryable(err) {
			a.log.Error("Transaction aborted; nothing was written. Re-run the loader.", zap.Error(err))
		} else {
			a.log.Error("Setup failed", zap.String("kind", string(apperrors.KindOf(err))), zap.Error(err))
		}
		return err
	}
	return nil
}

func (a *app) runAll(ctx context.Context) error {
	start := time.Now()
	a.log.Info("Starting InstaVibe setup")

	err := a.withStore(ctx, func(ctx context.Context, db store.Store) error {
		if err := a.applySchema(ctx, db); err != nil {
			return err
		}
		return a.seed(ctx, db)
	})
	if err != nil {
		return err
	}

	a.log.Info("Setup finished", zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (a *app) applySchema(ctx context.Context, db store.Store) error {
	dialect, err := schema.DialectFor(db.Backend())
	if err != nil {
		return err
	}
	m := schema.NewManager(db, dialect, a.log)
	if err := m.Setup(ctx); err != nil {
		return err
	}
	a.log.Info("Schema ready", zap.Stringer("state", m.State()))
	return nil
}

func (a *app) dataset() (*seed.Dataset, error) {
	if a.cfg.SeedFixture == "" {
		return seed.DefaultDataset()
	}
	a.log.Info("Loading fixture", zap.String("path", a.cfg.SeedFixture))
	return seed.LoadDataset(a.cfg.SeedFixture)
}

func (a *app) seed(ctx context.Context, db store.Store) error {
	ds, err := a.dataset()
	if err != nil {
		return err
	}
	_, err = seed.NewLoader(db, a.log).Load(ctx, ds)
	return err
}

func (a *app) project(ctx context.Context, db store.Store) error {
	repo, err := a.connectGraph(ctx, a.cfg, a.log)
	if err != nil {
		return err
	}
	defer repo.Close()

	snap, err := graph.ReadSnapshot(ctx, db, schema.SocialGraph)
	if err != nil {
		return err
	}
	if err := repo.EnsureConstraints(ctx, snap); err != nil {
		return err
	}
	res, err := repo.Project(ctx, snap)
	if err != nil {
		return err
	}
	a.log.Info("Projection complete", zap.Int("nodes", res.Nodes), zap.Int("edges", res.Edges))
	return nil
}
