package evaluator

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/simaogato/goalnudge-backend/internal/domain"
)

// Templates are rendered with the arguments (first name, goal type, percent)
var (
	increasedTemplates = []string{
		"Hi %[1]s 👋, awesome work! You're now at %[3]s%% of your %[2]s goal. Keep that momentum going! 🎉📈",
		"Hey %[1]s, your %[2]s savings just grew to %[3]s%% of your goal! Fantastic progress! 🚀💪",
		"%[1]s, you moved up to %[3]s%% for your %[2]s goal this month! Keep crushing it! 🔥",
	}
	sameTemplates = []string{
		"Hi %[1]s 👋, you're holding steady at %[3]s%% of your %[2]s goal. Staying consistent is powerful 💪 — let's aim to level up next month! 🚀",
		"Hey %[1]s, your %[2]s progress is steady at %[3]s%%. Consistency counts! Let's push for more next month! ✨",
		"%[1]s, you're still at %[3]s%% for your %[2]s goal. Every bit counts — let's make a move next month! 💡",
	}
	decreasedTemplates = []string{
		"Hi %[1]s 👋, your %[2]s progress is at %[3]s%%. Let's refocus and get back on track next month! 💪",
		"Hey %[1]s, you're at %[3]s%% for your %[2]s goal. Setbacks happen — you've got this! 🚨",
		"%[1]s, your %[2]s goal is now at %[3]s%%. Let's rally and aim higher next month! 🌱",
	}
)

// Rand is the randomness source used to pick a template.
// Implementations must be safe for concurrent use when the generator is shared.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// TemplateGenerator renders one of three fixed templates for the progress change.
// It never fails.
type TemplateGenerator struct {
	rng Rand
}

// NewTemplateGenerator creates a TemplateGenerator. A nil rng uses the process-wide source.
func NewTemplateGenerator(rng Rand) *TemplateGenerator {
	if rng == nil {
		rng = globalRand{}
	}
	return &TemplateGenerator{rng: rng}
}

// Render returns every template for the request's progress change, fully rendered
func (g *TemplateGenerator) Render(req MessageRequest) []string {
	var templates []string
	switch req.Change {
	case domain.ProgressIncreased:
		templates = increasedTemplates
	case domain.ProgressSame:
		templates = sameTemplates
	default:
		templates = decreasedTemplates
	}

	name, goal, percent := req.FirstName(), req.GoalLabel(), req.PercentString()
	rendered := make([]string, 0, len(templates))
	for _, tmpl := range templates {
		rendered = append(rendered, fmt.Sprintf(tmpl, name, goal, percent))
	}
	return rendered
}

// Candidates returns the rendered templates that differ from the last message.
// If every template matches, the full set is returned.
func (g *TemplateGenerator) Candidates(req MessageRequest) []string {
	all := g.Render(req)

	fresh := make([]string, 0, len(all))
	for _, msg := range all {
		if msg != req.LastMessage {
			fresh = append(fresh, msg)
		}
	}
	if len(fresh) == 0 {
		return all
	}
	return fresh
}

// Generate picks a candidate uniformly at random
func (g *TemplateGenerator) Generate(_ context.Context, req MessageRequest) (string, error) {
	candidates := g.Candidates(req)
	return candidates[g.rng.IntN(len(candidates))], nil
}
