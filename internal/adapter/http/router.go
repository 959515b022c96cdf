// Package http exposes the goal services as a JSON API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/goalnudge-backend/internal/domain"
	"github.com/simaogato/goalnudge-backend/internal/usecase/dashboard"
	"github.com/simaogato/goalnudge-backend/internal/usecase/knowledge"
	"github.com/simaogato/goalnudge-backend/internal/usecase/notify"
	"github.com/simaogato/goalnudge-backend/internal/usecase/progress"
)

// DashboardService serves the read-only client views
type DashboardService interface {
	ListClients(ctx context.Context) ([]*domain.Client, error)
	GetClientGoalHistory(ctx context.Context, clientID uuid.UUID) ([]*dashboard.GoalOverview, error)
}

// ProgressService records goal progress
type ProgressService interface {
	RecordProgress(ctx context.Context, goalID uuid.UUID, newAmount decimal.Decimal) (*progress.Outcome, error)
}

// ChatService answers advisor questions
type ChatService interface {
	Chat(ctx context.Context, messages []domain.ChatMessage) (*knowledge.Answer, error)
}

// NotifyService sends SMS broadcasts
type NotifyService interface {
	Broadcast(ctx context.Context, destinations []string, body string) ([]notify.Delivery, error)
	PhoneBook() notify.PhoneBook
}

// Services groups the handlers' dependencies. Chat and Notify may be nil,
// in which case their routes answer 503.
type Services struct {
	Dashboard DashboardService
	Progress  ProgressService
	Chat      ChatService
	Notify    NotifyService
	Health    func(ctx context.Context) error
}

// Options configures the router
type Options struct {
	APIToken       string
	RequestTimeout time.Duration
	Logger         *slog.Logger
	Sentry         bool // Report panics and 5xx to Sentry
}

type handler struct {
	svc    Services
	logger *slog.Logger
}

// NewRouter builds the HTTP API
func NewRouter(svc Services, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	h := &handler{svc: svc, logger: opts.Logger}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(opts.Logger))
	r.Use(middleware.Recoverer)
	if opts.Sentry {
		r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	}
	r.Use(middleware.Timeout(opts.RequestTimeout))
	r.Use(cors)

	r.Get("/health", h.handleHealth)

	r.Get("/clients", h.handleListClients)
	r.Get("/clients/{clientID}/all-goal-history", h.handleGoalHistory)
	r.Get("/phone-numbers", h.handleListPhoneNumbers)

	r.Group(func(r chi.Router) {
		r.Use(bearerAuth(opts.APIToken))

		r.Post("/goals/{goalID}/progress", h.handleRecordProgress)
		r.Post("/chat", h.handleChat)
		r.Post("/phone-numbers", h.handleAddPhoneNumber)
		r.Post("/notifications/sms", h.handleSendSMS)
	})

	return r
}
