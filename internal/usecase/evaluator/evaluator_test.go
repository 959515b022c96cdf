package evaluator

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/simaogato/goalnudge-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func janeSnapshot() domain.Snapshot {
	return domain.Snapshot{
		ClientName:             "Jane Doe",
		GoalType:               "Retirement",
		CurrentAmount:          d("72000"),
		GoalAmount:             d("100000"),
		InitialAmount:          d("50000"),
		MonthlyContribution:    d("500"),
		WithdrawalPeriodMonths: 60,
		ExpectedReturnRate:     d("0.06"),
		LastMonthValue:         d("72000"),
	}
}

func TestEvaluator_Evaluate_TemplatesOnly(t *testing.T) {
	e := NewEvaluator(nil, WithRand(fixedRand{index: 0}))

	result, err := e.Evaluate(context.Background(), janeSnapshot())
	require.NoError(t, err)

	assert.True(t, result.ProgressPercent.Equal(d("72")))
	assert.Equal(t, domain.ProgressSame, result.ProgressChange)
	assert.True(t, result.OnTrack)
	assert.Equal(t,
		"Hi Jane 👋, you're holding steady at 72% of your retirement goal. Staying consistent is powerful 💪 — let's aim to level up next month! 🚀",
		result.Message,
	)
}

func TestEvaluator_Evaluate_OffTrack(t *testing.T) {
	snap := janeSnapshot()
	snap.MonthlyContribution = decimal.Zero
	snap.ExpectedReturnRate = decimal.Zero
	snap.CurrentAmount = d("70000")

	result, err := NewEvaluator(nil).Evaluate(context.Background(), snap)
	require.NoError(t, err)

	assert.False(t, result.OnTrack)
	assert.Equal(t, domain.ProgressDecreased, result.ProgressChange)
	assert.True(t, result.ProgressPercent.Equal(d("70")))
}

func TestEvaluator_Evaluate_ZeroGoal(t *testing.T) {
	snap := janeSnapshot()
	snap.GoalAmount = decimal.Zero

	result, err := NewEvaluator(nil).Evaluate(context.Background(), snap)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrDivisionByZero)
}

func TestEvaluator_UsesRemoteMessage(t *testing.T) {
	ctx := context.Background()
	completer := new(MockCompleter)
	completer.On("Complete", ctx, mock.AnythingOfType("string")).Return("Jane, 72% there! 🎯", nil)

	e := NewEvaluator(NewRemoteGenerator(completer, "Dave"))
	result, err := e.Evaluate(ctx, janeSnapshot())
	require.NoError(t, err)
	assert.Equal(t, "Jane, 72% there! 🎯", result.Message)
	completer.AssertExpectations(t)
}

func TestEvaluator_FailingRemoteAlwaysFallsBack(t *testing.T) {
	ctx := context.Background()
	completer := new(MockCompleter)
	completer.On("Complete", ctx, mock.Anything).Return("", errors.New("503 service unavailable"))

	e := NewEvaluator(NewRemoteGenerator(completer, "Dave"))
	req := janeRequest(domain.ProgressIncreased, "")
	templates := NewTemplateGenerator(nil).Render(req)

	for i := 0; i < 50; i++ {
		msg := e.SelectMessage(ctx, req)
		assert.NotEmpty(t, msg)
		assert.Contains(t, templates, msg)
	}
}

func TestEvaluator_BrokenGeneratorStillAnswers(t *testing.T) {
	ctx := context.Background()
	broken := new(MockGenerator)
	broken.On("Generate", ctx, mock.Anything).Return("", errors.New("boom"))

	// The fallback chain itself is bypassed here to exercise the last-resort branch
	e := &Evaluator{generator: broken, templates: NewTemplateGenerator(fixedRand{index: 2})}
	req := janeRequest(domain.ProgressDecreased, "")

	assert.Equal(t, NewTemplateGenerator(nil).Render(req)[2], e.SelectMessage(ctx, req))
}

func TestEvaluator_ConcurrentUse(t *testing.T) {
	e := NewEvaluator(nil)
	snap := janeSnapshot()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				_, err := e.Evaluate(context.Background(), snap)
				assert.NoError(t, err)
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
