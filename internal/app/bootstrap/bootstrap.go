package bootstrap

import (
	"context"
	"log/slog"
	"strings"
	"time"

	ledgerengine "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine"
	postgresadapter "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/adapters/postgres"
	workerapp "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/application/workers"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/valueobjects"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/ports"
	"github.com/capri-code/eVotingSystem/internal/platform/config"
	"github.com/capri-code/eVotingSystem/internal/platform/db"
	"github.com/capri-code/eVotingSystem/internal/platform/httpserver"
	"github.com/capri-code/eVotingSystem/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	auditRelay   workerapp.AuditRelay
	enabled      bool
	pollInterval time.Duration
	logger       *slog.Logger
}

// BuildAPI wires the ledger against postgres when POSTGRES_DSN is set and
// falls back to the in-memory store for local single-node runs.
func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	var module ledgerengine.Module
	var pg *db.Postgres
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		module = ledgerengine.NewInMemoryModule(cfg.SeedAdmin, logger)
	} else {
		pg, err = db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		repo := postgresadapter.NewRepository(pg.DB, logger)
		clock := postgresadapter.SystemClock{}
		if err := seedAdmin(repo, clock, cfg.SeedAdmin); err != nil {
			_ = pg.Close()
			return nil, err
		}
		module = ledgerengine.NewModule(ledgerengine.Dependencies{
			Elections:  repo,
			Candidates: repo,
			Voters:     repo,
			Admins:     repo,
			Audit:      repo,
			Clock:      clock,
			Logger:     logger,
		})
	}

	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		auditRelay: workerapp.AuditRelay{
			Audit:     repo,
			Publisher: kafka,
			Clock:     postgresadapter.SystemClock{},
			BatchSize: cfg.AuditRelayBatchSize,
			Logger:    logger,
		},
		enabled:      cfg.EnableAuditRelay,
		pollInterval: cfg.AuditRelayPollInterval,
		logger:       logger,
	}, nil
}

// seedAdmin guarantees the admin set is non-empty before the first request.
// Re-seeding an existing account is a no-op.
func seedAdmin(admins ports.AdminRepository, clock ports.Clock, account string) error {
	account = valueobjects.NormalizeAccount(account)
	ctx := context.Background()

	exists, err := admins.IsAdmin(ctx, account)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = admins.AddAdmin(ctx, account, account, clock.Now().Unix())
	return err
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if !w.enabled {
		w.logger.Info("audit relay disabled",
			"event", "bootstrap_worker_relay_disabled",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.auditRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
