// Package app wires the stores, adapters and services shared by the server and the CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/simaogato/goalnudge-backend/internal/adapter/http"
	"github.com/simaogato/goalnudge-backend/internal/adapter/llm/azure"
	"github.com/simaogato/goalnudge-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/goalnudge-backend/internal/adapter/repository/sqlite"
	"github.com/simaogato/goalnudge-backend/internal/adapter/sms/twilio"
	"github.com/simaogato/goalnudge-backend/internal/config"
	"github.com/simaogato/goalnudge-backend/internal/domain"
	"github.com/simaogato/goalnudge-backend/internal/usecase/dashboard"
	"github.com/simaogato/goalnudge-backend/internal/usecase/evaluator"
	"github.com/simaogato/goalnudge-backend/internal/usecase/knowledge"
	"github.com/simaogato/goalnudge-backend/internal/usecase/notify"
	"github.com/simaogato/goalnudge-backend/internal/usecase/progress"
	"github.com/simaogato/goalnudge-backend/internal/usecase/seeder"
)

type store interface {
	PingContext(ctx context.Context) error
	Close() error
}

// App holds the wired services. Notify is nil when SMS delivery is not configured.
type App struct {
	Clients domain.ClientRepository
	Goals   domain.GoalRepository
	History domain.HistoryRepository

	Evaluator *evaluator.Evaluator
	Progress  *progress.Service
	Dashboard *dashboard.DashboardService
	Knowledge *knowledge.Service
	Notify    *notify.Service
	Seeder    *seeder.DemoSeeder

	store  store
	logger *slog.Logger
}

// New opens the configured store and builds every service on top of it
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{logger: logger}

	if err := a.openStore(ctx, cfg.Database); err != nil {
		return nil, err
	}

	if err := a.buildServices(cfg); err != nil {
		_ = a.Close()
		return nil, err
	}

	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg config.DatabaseConfig) error {
	switch cfg.Driver {
	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("opening sqlite store: %w", err)
		}
		a.store = sqliteStore{s}
		a.Clients, a.Goals, a.History = s.Clients(), s.Goals(), s.History()
		a.logger.Info("using sqlite store", "path", cfg.SQLitePath)

	case config.DriverPostgres:
		db, err := postgres.Connect(ctx, cfg.DSN(), cfg.ConnectAttempts, cfg.ConnectWait, a.logger)
		if err != nil {
			return err
		}
		a.store = db
		a.Clients = postgres.NewClientRepository(db)
		a.Goals = postgres.NewGoalRepository(db)
		a.History = postgres.NewHistoryRepository(db)
		a.logger.Info("connected to postgres", "host", cfg.Host, "database", cfg.Name)

	default:
		return fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	return nil
}

func (a *App) buildServices(cfg config.Config) error {
	policy, err := notify.NewPolicy(cfg.Notify.When)
	if err != nil {
		return err
	}

	var (
		remote evaluator.MessageGenerator
		model  knowledge.ChatModel
	)
	if cfg.LLM.Enabled() {
		client, err := azure.NewClient(azure.Config{
			Endpoint:   cfg.LLM.Endpoint,
			APIKey:     cfg.LLM.APIKey,
			Deployment: cfg.LLM.Deployment,
			APIVersion: cfg.LLM.APIVersion,
			Timeout:    cfg.LLM.Timeout,
			MaxRetries: cfg.LLM.MaxRetries,
		}, a.logger)
		if err != nil {
			return fmt.Errorf("creating azure openai client: %w", err)
		}
		remote = evaluator.NewRemoteGenerator(client, cfg.LLM.AdvisorName)
		model = client
	} else {
		a.logger.Info("language generation not configured, using message templates")
	}

	a.Evaluator = evaluator.NewEvaluator(remote, evaluator.WithLogger(a.logger))

	progressOpts := []progress.Option{progress.WithLogger(a.logger)}
	if cfg.SMS.Enabled() {
		sender, err := twilio.NewClient(twilio.Config{
			AccountSID:          cfg.SMS.AccountSID,
			AuthToken:           cfg.SMS.AuthToken,
			MessagingServiceSID: cfg.SMS.MessagingServiceSID,
			BaseURL:             cfg.SMS.BaseURL,
			Timeout:             cfg.SMS.Timeout,
			MaxRetries:          cfg.SMS.MaxRetries,
		}, a.logger)
		if err != nil {
			return fmt.Errorf("creating twilio client: %w", err)
		}
		a.Notify = notify.NewService(sender, notify.NewInMemoryPhoneBook(cfg.SMS.PhoneNumbers...), a.logger)
		progressOpts = append(progressOpts, progress.WithNotifier(a.Notify, policy))
	} else {
		a.logger.Info("sms not configured, notifications disabled")
	}

	a.Progress = progress.NewService(a.Clients, a.Goals, a.History, a.Evaluator, progressOpts...)
	a.Dashboard = dashboard.NewDashboardService(a.Clients, a.Goals, a.History)
	a.Knowledge = knowledge.NewService(a.Clients, a.Goals, a.History, model, cfg.LLM.AdvisorName, cfg.Knowledge.TopK)
	a.Seeder = seeder.NewDemoSeeder(a.Clients, a.Goals)

	return nil
}

// HTTPServices returns the handler dependencies. Chat is always served; it answers 503
// without a language model.
func (a *App) HTTPServices() http.Services {
	svc := http.Services{
		Dashboard: a.Dashboard,
		Progress:  a.Progress,
		Chat:      a.Knowledge,
		Health:    a.Ping,
	}
	if a.Notify != nil {
		svc.Notify = a.Notify
	}
	return svc
}

// Ping checks the store connection
func (a *App) Ping(ctx context.Context) error {
	return a.store.PingContext(ctx)
}

// Close releases the store
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

type sqliteStore struct {
	*sqlite.Store
}

func (s sqliteStore) PingContext(ctx context.Context) error {
	return s.Ping(ctx)
}
