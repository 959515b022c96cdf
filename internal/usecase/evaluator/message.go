package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/simaogato/goalnudge-backend/internal/domain"
)

// MessageRequest carries everything a generator needs to write a status message
type MessageRequest struct {
	ClientName      string
	GoalType        string
	ProgressPercent decimal.Decimal
	Change          domain.ProgressChange
	LastMessage     string // Empty when nothing was sent before
}

// FirstName returns the first whitespace-delimited token of the client name
func (r MessageRequest) FirstName() string {
	return domain.FirstName(r.ClientName)
}

// GoalLabel returns the lowercased goal type
func (r MessageRequest) GoalLabel() string {
	return strings.ToLower(r.GoalType)
}

// PercentString formats the percent without trailing zeros (72.0 -> "72", 72.50 -> "72.5")
func (r MessageRequest) PercentString() string {
	return r.ProgressPercent.String()
}

// MessageGenerator produces a human-readable status message for a goal
type MessageGenerator interface {
	Generate(ctx context.Context, req MessageRequest) (string, error)
}

// TextCompleter is a single-prompt completion endpoint of a language model
type TextCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// RemoteGenerator asks a language model for a fresh message
type RemoteGenerator struct {
	completer   TextCompleter
	advisorName string
}

// NewRemoteGenerator creates a RemoteGenerator. advisorName signs the generated messages.
func NewRemoteGenerator(completer TextCompleter, advisorName string) *RemoteGenerator {
	return &RemoteGenerator{completer: completer, advisorName: advisorName}
}

// Prompt builds the completion prompt for req
func (g *RemoteGenerator) Prompt(req MessageRequest) string {
	last := req.LastMessage
	if last == "" {
		last = "None"
	}

	advisor := g.advisorName
	if advisor == "" {
		advisor = "your advisor"
	}

	return fmt.Sprintf(
		"You are a friendly financial assistant for %[1]s. Generate a short, fresh, motivational, and text-friendly message for %[2]s about their %[3]s goal. "+
			"They are at %[4]s%% of their goal. The progress this month has %[5]s. "+
			"Do not repeat this previous message: '%[6]s'. "+
			"Use emojis, keep it under 2 sentences, and make it suitable for SMS. Sign it as a note from your financial advisor %[1]s.",
		advisor, req.FirstName(), req.GoalLabel(), req.PercentString(), req.Change, last,
	)
}

// Generate returns the model's message, or an error wrapping
// domain.ErrLanguageGenerationUnavailable when no usable message was produced
func (g *RemoteGenerator) Generate(ctx context.Context, req MessageRequest) (string, error) {
	if g == nil || g.completer == nil {
		return "", domain.ErrLanguageGenerationUnavailable
	}

	msg, err := g.completer.Complete(ctx, g.Prompt(req))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrLanguageGenerationUnavailable, err)
	}

	msg = strings.TrimSpace(msg)
	if msg == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrLanguageGenerationUnavailable)
	}

	return msg, nil
}

// FallbackGenerator tries the primary generator and falls back to the secondary one
// when the primary fails or returns an empty message
type FallbackGenerator struct {
	primary   MessageGenerator
	secondary MessageGenerator
	logger    *slog.Logger
}

// NewFallbackGenerator composes primary and secondary
func NewFallbackGenerator(primary, secondary MessageGenerator, logger *slog.Logger) *FallbackGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackGenerator{primary: primary, secondary: secondary, logger: logger}
}

// Generate implements MessageGenerator
func (g *FallbackGenerator) Generate(ctx context.Context, req MessageRequest) (string, error) {
	msg, err := g.primary.Generate(ctx, req)
	if err == nil && strings.TrimSpace(msg) != "" {
		return msg, nil
	}

	g.logger.Warn("message generation fell back to templates",
		"client", req.FirstName(),
		"goal_type", req.GoalType,
		"error", err,
	)
	return g.secondary.Generate(ctx, req)
}
