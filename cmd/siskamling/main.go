package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/tanjung-residence/siskamling/attendance-service/internal/adapters/cli"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/adapters/clock"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/adapters/kvstore"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/adapters/repository"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/config"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/domain"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/services"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/logging"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/metrics"
)

func main() {
	os.Exit(run())
}

func run() int {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 2
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return 1
	}
	defer lg.Closer()

	logger := lg.Base.With(zap.String("run_id", uuid.NewString()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	table, err := config.LoadRosterTable(cfg.RosterFile)
	if err != nil {
		logger.Error("failed to load roster table", zap.String("path", cfg.RosterFile), zap.Error(err))
		return 1
	}

	store, err := kvstore.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
		return 1
	}
	defer store.Close()

	submissions := repository.NewKVSubmissionLog(store, cfg.LogKey, cfg.StoreTimeout, logger)
	clk := clock.NewSystem(cfg.Location)
	resolver := services.NewScheduleResolver(table, cfg.Location)

	var active *domain.Roster
	if r, ok := resolver.Resolve(clk.Now()); ok {
		active = &r
	}
	session := services.NewAttendanceSession(active, submissions, clk, logger)
	recap := services.NewRecapService(submissions, table, logger)
	watcher := services.NewDateWatcher(resolver, session, clk, cfg.DateCheckInterval, logger)

	app := cli.New(cli.Deps{
		Session:  session,
		Recap:    recap,
		Resolver: resolver,
		Watcher:  watcher,
		Store:    store,
		Log:      submissions,
		Clock:    clk,
		Location: cfg.Location,
		Logger:   logger,
		In:       os.Stdin,
		Out:      os.Stdout,
	})

	code := 0
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		switch {
		case errors.Is(err, cli.ErrUsage):
			code = 2
		case errors.Is(err, cli.ErrUnhealthy):
			code = 1
		default:
			logger.Error("command failed", zap.Error(err))
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			code = 1
		}
	}

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Warn("failed to write metrics textfile", zap.String("path", cfg.MetricsFile), zap.Error(err))
		}
	}
	return code
}
