// Package evaluator computes goal progress, projects whether a goal is on track and
// selects the status message sent to the client.
package evaluator

import (
	"context"
	"log/slog"

	"github.com/simaogato/goalnudge-backend/internal/domain"
)

// Evaluator evaluates goal snapshots. It holds no mutable state and is safe for concurrent use
// as long as its generators are.
type Evaluator struct {
	generator MessageGenerator
	templates *TemplateGenerator
}

// Option configures an Evaluator
type Option func(*options)

type options struct {
	rng    Rand
	logger *slog.Logger
}

// WithRand injects the randomness source used for template selection
func WithRand(rng Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithLogger sets the logger used to report fallbacks
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// NewEvaluator creates an Evaluator. When remote is nil, messages always come from templates.
func NewEvaluator(remote MessageGenerator, opts ...Option) *Evaluator {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	templates := NewTemplateGenerator(o.rng)

	var generator MessageGenerator = templates
	if remote != nil {
		generator = NewFallbackGenerator(remote, templates, o.logger)
	}

	return &Evaluator{generator: generator, templates: templates}
}

// Evaluate computes the progress percent, change classification, on-track projection and
// message for a snapshot. The only error is domain.ErrDivisionByZero for a zero goal amount.
func (e *Evaluator) Evaluate(ctx context.Context, snap domain.Snapshot) (*domain.Evaluation, error) {
	percent, err := ProgressPercent(snap.CurrentAmount, snap.GoalAmount)
	if err != nil {
		return nil, err
	}

	change := ClassifyChange(snap.CurrentAmount, snap.LastMonthValue)
	onTrack := IsOnTrack(
		snap.CurrentAmount,
		snap.MonthlyContribution,
		snap.WithdrawalPeriodMonths,
		snap.ExpectedReturnRate,
		snap.GoalAmount,
	)

	message := e.SelectMessage(ctx, MessageRequest{
		ClientName:      snap.ClientName,
		GoalType:        snap.GoalType,
		ProgressPercent: percent,
		Change:          change,
		LastMessage:     snap.LastMessageSent,
	})

	return &domain.Evaluation{
		ProgressPercent: percent,
		ProgressChange:  change,
		OnTrack:         onTrack,
		Message:         message,
	}, nil
}

// SelectMessage returns a status message for req. It never fails and never returns an
// empty string.
func (e *Evaluator) SelectMessage(ctx context.Context, req MessageRequest) string {
	msg, err := e.generator.Generate(ctx, req)
	if err != nil || msg == "" {
		msg, _ = e.templates.Generate(ctx, req)
	}
	return msg
}
