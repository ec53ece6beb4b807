// Command tanong is the main entry point for the Tanong campus assistant
// server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kabalen/tanong/internal/assistant"
	"github.com/kabalen/tanong/internal/config"
	"github.com/kabalen/tanong/internal/directory"
	"github.com/kabalen/tanong/internal/directory/mock"
	"github.com/kabalen/tanong/internal/directory/postgres"
	"github.com/kabalen/tanong/internal/directory/sqlite"
	"github.com/kabalen/tanong/internal/health"
	"github.com/kabalen/tanong/internal/lexicon"
	"github.com/kabalen/tanong/internal/observe"
	"github.com/kabalen/tanong/internal/resilience"
	"github.com/kabalen/tanong/internal/server"
	"github.com/kabalen/tanong/internal/session"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "tanong: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "tanong: %v\n", err)
		}
		return 1
	}

	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("tanong starting",
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
		"directory_driver", cfg.Directory.Driver,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// OTel providers with the Prometheus bridge for /metrics.
	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName: "tanong",
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()
	metrics := observe.DefaultMetrics()

	// Directory store behind the circuit breaker.
	store, closeStore, err := openStore(ctx, cfg.Directory)
	if err != nil {
		slog.Error("failed to open directory store", "err", err)
		return 1
	}
	defer closeStore()

	guarded := resilience.Guard(store,
		resilience.WithErrorHook(func(op string) {
			metrics.RecordLookupError(context.Background(), op)
		}),
		resilience.WithLatencyHook(func(op string, d time.Duration) {
			metrics.RecordLookupDuration(context.Background(), op, d)
		}),
	)

	// Vocabulary: built-ins plus the optional overlay.
	lex, err := buildLexicon(cfg.Lexicon)
	if err != nil {
		slog.Error("failed to load lexicon", "err", err)
		return 1
	}

	asst := assistant.New(lex, guarded,
		assistant.WithMetrics(metrics),
		assistant.WithThresholds(cfg.Pipeline.Thresholds()),
	)

	// Hot reload: the watcher re-applies the overlay and swaps the
	// assistant's pipeline when the file changes.
	if cfg.Lexicon.Watch {
		var opts []lexicon.WatcherOption
		if cfg.Lexicon.PollInterval > 0 {
			opts = append(opts, lexicon.WithInterval(cfg.Lexicon.PollInterval))
		}
		opts = append(opts, lexicon.WithReloadErrorHook(func(error) {
			metrics.RecordLexiconReload(context.Background(), "error")
		}))
		watcher, err := lexicon.NewWatcher(cfg.Lexicon.OverlayPath, lexicon.Default(),
			func(_, next *lexicon.Lexicon) {
				asst.SwapLexicon(next)
				metrics.RecordLexiconReload(context.Background(), "ok")
			}, opts...)
		if err != nil {
			slog.Error("failed to start lexicon watcher", "err", err)
			return 1
		}
		defer watcher.Stop()
	}

	// Conversation sessions.
	var sessionOpts []session.ManagerOption
	if cfg.Session.IdleTimeout > 0 {
		sessionOpts = append(sessionOpts, session.WithIdleTimeout(cfg.Session.IdleTimeout))
	}
	sessionOpts = append(sessionOpts, session.WithActiveGauge(func(delta int64) {
		metrics.ActiveSessions.Add(context.Background(), delta)
	}))
	sessions := session.NewManager(sessionOpts...)
	defer sessions.Stop()

	// HTTP server.
	addr := cfg.Server.ListenAddr
	if addr == "" {
		addr = ":8080"
	}
	srvOpts := []server.Option{
		server.WithMetrics(metrics),
		server.WithHealthCheckers(health.DirectoryChecker(guarded)),
	}
	if cfg.Server.TLS != nil {
		srvOpts = append(srvOpts, server.WithTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile))
	}
	srv := server.New(addr, asst, sessions, srvOpts...)

	slog.Info("server ready — press Ctrl+C to shut down")

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}

	slog.Info("goodbye")
	return 0
}

// openStore builds the configured directory backend. The returned close
// function is safe to call even on partial setup.
func openStore(ctx context.Context, cfg config.DirectoryConfig) (directory.Store, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		st := postgres.New(pool)
		if err := st.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate postgres schema: %w", err)
		}
		return st, pool.Close, nil

	case config.DriverSQLite:
		st, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite at %q: %w", cfg.Path, err)
		}
		return st, func() { _ = st.Close() }, nil

	case config.DriverMock, "":
		return devStore(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown directory driver %q", cfg.Driver)
	}
}

// devStore returns an in-memory directory with a small sample roster so the
// assistant answers something useful out of the box.
func devStore() directory.Store {
	return &mock.Store{
		OfficerResult: &directory.Officer{
			Name:          "Maria Santos",
			PositionTitle: "President",
			OrgName:       "Central Student Council",
		},
		OfficersResult: &directory.OfficerList{
			OrgName: "Central Student Council",
			Officers: []directory.OfficerEntry{
				{Position: "President", Name: "Maria Santos"},
				{Position: "Vice President", Name: "Juan dela Cruz"},
				{Position: "Secretary", Name: "Ana Reyes"},
			},
		},
		CommitteeResult: &directory.Committee{
			OrgName:        "Central Student Council",
			CommitteeTitle: "Events Committee",
			Members:        []string{"Juan dela Cruz", "Ana Reyes", "Leo Tan"},
		},
		RoomStatsResult: &directory.RoomStats{Total: 24, Occupied: 9, Vacant: 15},
	}
}

// buildLexicon assembles the vocabulary from built-ins plus the optional
// overlay file.
func buildLexicon(cfg config.LexiconConfig) (*lexicon.Lexicon, error) {
	base := lexicon.Default()
	if cfg.OverlayPath == "" {
		return base, nil
	}
	overlay, err := lexicon.LoadOverlay(cfg.OverlayPath)
	if err != nil {
		return nil, err
	}
	return overlay.Apply(base)
}

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
