package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/charmbracelet/log"
	"github.com/minipay/minipay/infra/database"
	"github.com/minipay/minipay/infra/eventbus"
	"github.com/minipay/minipay/infra/repository/gormrepo"
	"github.com/minipay/minipay/infra/repository/memory"
	"github.com/minipay/minipay/pkg/config"
	"github.com/minipay/minipay/pkg/domain/account"
	"github.com/minipay/minipay/pkg/domain/events"
	"github.com/minipay/minipay/pkg/repository"
	accountsvc "github.com/minipay/minipay/pkg/service/account"
	"github.com/minipay/minipay/webapi"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	logger := slog.Default()

	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Ledger.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", cfg.Ledger.Timezone, err)
	}
	policy := account.ChargePolicy{
		DailyLimit: cfg.Ledger.DailyChargeLimit,
		ChargeUnit: cfg.Ledger.ChargeUnit,
		Location:   loc,
	}

	var repo repository.AccountRepository
	if cfg.DB.Url != "" {
		db, err := database.Connect(cfg.DB.Url)
		if err != nil {
			return err
		}
		repo = gormrepo.New(db)
	} else {
		logger.Warn("no database configured, using in-memory account store")
		repo = memory.New()
	}

	bus := eventbus.NewWithMemory(logger)
	accountsvc.RegisterCompensation(bus, repo, logger)

	if cfg.Redis.Url != "" {
		notifier, err := eventbus.NewRedisStreamNotifier(cfg.Redis.Url, cfg.Redis.Stream, logger)
		if err != nil {
			return err
		}
		defer notifier.Close() //nolint:errcheck
		bus.Register(events.TypeDepositFailed, notifier.Notify)
	}

	svc := accountsvc.NewService(repo, bus, policy, logger)
	app := webapi.New(svc)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server", "env", cfg.Env, "address", addr)

	errCh := make(chan error, 1)
	go func() { errCh <- app.Listen(addr) }()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-shutdown:
		logger.Info("shutting down", "signal", sig.String())
		return app.ShutdownWithTimeout(cfg.ShutdownTimeout)
	}
}
