package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/goalnudge-backend/internal/domain"
	"github.com/simaogato/goalnudge-backend/internal/usecase/dashboard"
	"github.com/simaogato/goalnudge-backend/internal/usecase/progress"
)

const testToken = "test-token-123"

// MockDashboardService is a mock implementation of DashboardService
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) ListClients(ctx context.Context) ([]*domain.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Client), args.Error(1)
}

func (m *MockDashboardService) GetClientGoalHistory(ctx context.Context, clientID uuid.UUID) ([]*dashboard.GoalOverview, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dashboard.GoalOverview), args.Error(1)
}

// MockProgressService is a mock implementation of ProgressService
type MockProgressService struct {
	mock.Mock
}

func (m *MockProgressService) RecordProgress(ctx context.Context, goalID uuid.UUID, newAmount decimal.Decimal) (*progress.Outcome, error) {
	args := m.Called(ctx, goalID, newAmount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*progress.Outcome), args.Error(1)
}

func startServer(t *testing.T, dash DashboardService, prog ProgressService) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(AuthInterceptor(testToken)))
	RegisterGoalServiceServer(srv, NewServer(dash, prog))
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func authCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+testToken)
}

func method(name string) string {
	return "/" + ServiceName + "/" + name
}

func TestServer_ListClients(t *testing.T) {
	dash := new(MockDashboardService)
	jane := &domain.Client{ID: uuid.New(), Name: "Jane Doe"}
	dash.On("ListClients", mock.Anything).Return([]*domain.Client{jane}, nil)
	conn := startServer(t, dash, new(MockProgressService))

	out := new(structpb.Struct)
	err := conn.Invoke(authCtx(t), method("ListClients"), &emptypb.Empty{}, out)

	require.NoError(t, err)
	clients := out.AsMap()["clients"].([]any)
	require.Len(t, clients, 1)
	assert.Equal(t, jane.ID.String(), clients[0].(map[string]any)["id"])
	assert.Equal(t, "Jane Doe", clients[0].(map[string]any)["client_name"])
}

func TestServer_Unauthenticated(t *testing.T) {
	dash := new(MockDashboardService)
	conn := startServer(t, dash, new(MockProgressService))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := conn.Invoke(ctx, method("ListClients"), &emptypb.Empty{}, new(structpb.Struct))

	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	dash.AssertNotCalled(t, "ListClients", mock.Anything)
}

func TestServer_GetClientGoals(t *testing.T) {
	dash := new(MockDashboardService)
	clientID := uuid.New()
	dash.On("GetClientGoalHistory", mock.Anything, clientID).Return([]*dashboard.GoalOverview{{
		Goal: &domain.Goal{
			ID:            uuid.New(),
			GoalType:      "Retirement",
			GoalAmount:    decimal.NewFromInt(100000),
			InitialAmount: decimal.NewFromInt(50000),
			CurrentAmount: decimal.NewFromInt(72000),
		},
		History: []*domain.GoalHistory{{
			GoalAmount:    decimal.NewFromInt(100000),
			CurrentAmount: decimal.NewFromInt(72000),
			MessageSent:   "Keep going",
			CreatedAt:     time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		}},
		ProgressPercent: decimal.NewFromInt(72),
		OnTrack:         true,
	}}, nil)
	conn := startServer(t, dash, new(MockProgressService))

	req, err := structpb.NewStruct(map[string]any{"client_id": clientID.String()})
	require.NoError(t, err)
	out := new(structpb.Struct)
	err = conn.Invoke(authCtx(t), method("GetClientGoals"), req, out)

	require.NoError(t, err)
	goals := out.AsMap()["goals"].([]any)
	require.Len(t, goals, 1)
	goal := goals[0].(map[string]any)
	assert.Equal(t, "Retirement", goal["goal_type"])
	assert.Equal(t, "72", goal["progress_percent"])
	assert.Equal(t, true, goal["on_track"])
	history := goal["history"].([]any)
	require.Len(t, history, 1)
	assert.Equal(t, "2024-05-01T00:00:00Z", history[0].(map[string]any)["created_at"])
}

func TestServer_GetClientGoals_Errors(t *testing.T) {
	clientID := uuid.New()
	tests := []struct {
		name     string
		clientID string
		err      error
		code     codes.Code
	}{
		{name: "Invalid id", clientID: "not-a-uuid", code: codes.InvalidArgument},
		{name: "No goals", clientID: clientID.String(), err: fmt.Errorf("no goals: %w", domain.ErrNotFound), code: codes.NotFound},
		{name: "Storage failure", clientID: clientID.String(), err: errors.New("connection reset"), code: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dash := new(MockDashboardService)
			if tt.err != nil {
				dash.On("GetClientGoalHistory", mock.Anything, clientID).Return(nil, tt.err)
			}
			conn := startServer(t, dash, new(MockProgressService))

			req, err := structpb.NewStruct(map[string]any{"client_id": tt.clientID})
			require.NoError(t, err)
			err = conn.Invoke(authCtx(t), method("GetClientGoals"), req, new(structpb.Struct))

			assert.Equal(t, tt.code, status.Code(err))
		})
	}
}

func TestServer_RecordProgress(t *testing.T) {
	prog := new(MockProgressService)
	goalID := uuid.New()
	prog.On("RecordProgress", mock.Anything, goalID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.RequireFromString("74000.50"))
	})).Return(&progress.Outcome{
		Goal:    &domain.Goal{ID: goalID},
		History: &domain.GoalHistory{ID: uuid.New(), CreatedAt: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)},
		Evaluation: &domain.Evaluation{
			ProgressPercent: decimal.RequireFromString("74"),
			ProgressChange:  domain.ProgressIncreased,
			Message:         "Nice",
		},
	}, nil)
	conn := startServer(t, new(MockDashboardService), prog)

	for _, amount := range []any{"74000.50", 74000.5} {
		req, err := structpb.NewStruct(map[string]any{"goal_id": goalID.String(), "current_amount": amount})
		require.NoError(t, err)
		out := new(structpb.Struct)
		err = conn.Invoke(authCtx(t), method("RecordProgress"), req, out)

		require.NoError(t, err)
		assert.Equal(t, "increased", out.AsMap()["progress_change"])
		assert.Equal(t, "74", out.AsMap()["progress_percent"])
		assert.Equal(t, "Nice", out.AsMap()["message"])
	}
}

func TestServer_RecordProgress_InvalidArguments(t *testing.T) {
	prog := new(MockProgressService)
	goalID := uuid.New()
	prog.On("RecordProgress", mock.Anything, goalID, mock.Anything).Return(nil, fmt.Errorf("negative: %w", domain.ErrInvalidInput))
	conn := startServer(t, new(MockDashboardService), prog)

	tests := []struct {
		name   string
		fields map[string]any
	}{
		{name: "Bad goal id", fields: map[string]any{"goal_id": "x", "current_amount": "1"}},
		{name: "Missing amount", fields: map[string]any{"goal_id": goalID.String()}},
		{name: "Bad amount", fields: map[string]any{"goal_id": goalID.String(), "current_amount": "lots"}},
		{name: "Negative amount", fields: map[string]any{"goal_id": goalID.String(), "current_amount": "-5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := structpb.NewStruct(tt.fields)
			require.NoError(t, err)
			err = conn.Invoke(authCtx(t), method("RecordProgress"), req, new(structpb.Struct))
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{err: fmt.Errorf("x: %w", domain.ErrInvalidInput), code: codes.InvalidArgument},
		{err: domain.ErrDivisionByZero, code: codes.InvalidArgument},
		{err: fmt.Errorf("goal: %w", domain.ErrNotFound), code: codes.NotFound},
		{err: domain.ErrLanguageGenerationUnavailable, code: codes.Unavailable},
		{err: errors.New("boom"), code: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.code, status.Code(mapError(tt.err)))
		})
	}
	assert.NoError(t, mapError(nil))
}
