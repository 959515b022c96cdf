package notify

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/simaogato/goalnudge-backend/internal/domain"
)

// Policy decides whether an evaluation is worth an SMS.
// The expression sees percent (double), change (string) and on_track (bool),
// e.g. `change == "decreased" || !on_track`.
type Policy struct {
	expression string
	program    cel.Program
}

// NewPolicy compiles the expression. An empty expression yields a policy that always notifies.
func NewPolicy(expression string) (*Policy, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return &Policy{}, nil
	}

	env, err := cel.NewEnv(
		cel.Variable("percent", cel.DoubleType),
		cel.Variable("change", cel.StringType),
		cel.Variable("on_track", cel.BoolType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("notification policy must evaluate to bool, got %s", ast.OutputType())
	}

	prog, err := env.Program(ast, cel.CostLimit(10000))
	if err != nil {
		return nil, fmt.Errorf("program creation error: %w", err)
	}

	return &Policy{expression: expression, program: prog}, nil
}

// Expression returns the source expression, empty for the always-notify policy
func (p *Policy) Expression() string {
	return p.expression
}

// Allows reports whether the evaluation should be sent to the client
func (p *Policy) Allows(eval *domain.Evaluation) (bool, error) {
	if p == nil || p.program == nil {
		return true, nil
	}

	out, _, err := p.program.Eval(map[string]any{
		"percent":  eval.ProgressPercent.InexactFloat64(),
		"change":   string(eval.ProgressChange),
		"on_track": eval.OnTrack,
	})
	if err != nil {
		return false, fmt.Errorf("evaluating notification policy: %w", err)
	}

	allowed, ok := out.Value().(bool)
	return ok && allowed, nil
}
