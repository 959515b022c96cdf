package grpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/goalnudge-backend/internal/domain"
	"github.com/simaogato/goalnudge-backend/internal/usecase/dashboard"
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

// Server implements the GoalService gRPC server
type Server struct {
	DashboardService DashboardService
	ProgressService  ProgressService
}

var _ GoalServiceServer = (*Server)(nil)

// NewServer creates a new gRPC server instance
func NewServer(dashboardService DashboardService, progressService ProgressService) *Server {
	return &Server{
		DashboardService: dashboardService,
		ProgressService:  progressService,
	}
}

// ListClients handles the ListClients RPC
func (s *Server) ListClients(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	clients, err := s.DashboardService.ListClients(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	items := make([]any, 0, len(clients))
	for _, c := range clients {
		items = append(items, map[string]any{
			"id":          c.ID.String(),
			"client_name": c.Name,
		})
	}

	return newStruct(map[string]any{"clients": items})
}

// GetClientGoals handles the GetClientGoals RPC
func (s *Server) GetClientGoals(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	clientID, err := uuid.Parse(stringField(req, "client_id"))
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid client_id format: %v", err)
	}

	overviews, err := s.DashboardService.GetClientGoalHistory(ctx, clientID)
	if err != nil {
		return nil, mapError(err)
	}

	goals := make([]any, 0, len(overviews))
	for _, o := range overviews {
		history := make([]any, 0, len(o.History))
		for _, h := range o.History {
			history = append(history, map[string]any{
				"goal_amount":       h.GoalAmount.String(),
				"current_amount":    h.CurrentAmount.String(),
				"last_message_sent": h.MessageSent,
				"created_at":        h.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		goals = append(goals, map[string]any{
			"id":               o.Goal.ID.String(),
			"goal_type":        o.Goal.GoalType,
			"goal_amount":      o.Goal.GoalAmount.String(),
			"initial_amount":   o.Goal.InitialAmount.String(),
			"current_amount":   o.Goal.CurrentAmount.String(),
			"progress_percent": o.ProgressPercent.String(),
			"on_track":         o.OnTrack,
			"history":          history,
		})
	}

	return newStruct(map[string]any{"goals": goals})
}

// RecordProgress handles the RecordProgress RPC
func (s *Server) RecordProgress(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	goalID, err := uuid.Parse(stringField(req, "goal_id"))
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid goal_id format: %v", err)
	}

	// Amounts are accepted as decimal strings or JSON numbers
	amount, err := decimalField(req, "current_amount")
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid current_amount format: %v", err)
	}

	outcome, err := s.ProgressService.RecordProgress(ctx, goalID, amount)
	if err != nil {
		return nil, mapError(err)
	}

	return newStruct(map[string]any{
		"goal_id":          outcome.Goal.ID.String(),
		"history_id":       outcome.History.ID.String(),
		"progress_percent": outcome.Evaluation.ProgressPercent.String(),
		"progress_change":  string(outcome.Evaluation.ProgressChange),
		"on_track":         outcome.Evaluation.OnTrack,
		"message":          outcome.Evaluation.Message,
		"notified":         outcome.Notified,
		"created_at":       outcome.History.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func stringField(req *structpb.Struct, key string) string {
	if req == nil {
		return ""
	}
	return strings.TrimSpace(req.GetFields()[key].GetStringValue())
}

func decimalField(req *structpb.Struct, key string) (decimal.Decimal, error) {
	v, ok := req.GetFields()[key]
	if !ok {
		return decimal.Zero, errors.New(key + " is required")
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return decimal.NewFromString(strings.TrimSpace(kind.StringValue))
	case *structpb.Value_NumberValue:
		return decimal.NewFromFloat(kind.NumberValue), nil
	default:
		return decimal.Zero, errors.New(key + " must be a string or number")
	}
}

func newStruct(m map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding response: %v", err)
	}
	return out, nil
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrDivisionByZero):
		return status.Errorf(codes.InvalidArgument, "%s", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return status.Errorf(codes.NotFound, "%s", err.Error())
	case errors.Is(err, domain.ErrLanguageGenerationUnavailable):
		return status.Errorf(codes.Unavailable, "%s", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", err.Error())
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", err.Error())
}
