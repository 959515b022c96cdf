package evaluator

import (
	"context"
	"testing"

	"github.com/simaogato/goalnudge-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRand always returns the same index (modulo n)
type fixedRand struct {
	index int
}

func (r fixedRand) IntN(n int) int { return r.index % n }

func janeRequest(change domain.ProgressChange, last string) MessageRequest {
	return MessageRequest{
		ClientName:      "Jane Doe",
		GoalType:        "Retirement",
		ProgressPercent: d("72.0"),
		Change:          change,
		LastMessage:     last,
	}
}

func TestTemplateGenerator_Render(t *testing.T) {
	g := NewTemplateGenerator(nil)

	rendered := g.Render(janeRequest(domain.ProgressIncreased, ""))
	require.Len(t, rendered, 3)
	assert.Equal(t,
		"Hi Jane 👋, awesome work! You're now at 72% of your retirement goal. Keep that momentum going! 🎉📈",
		rendered[0],
	)
	for _, msg := range rendered {
		assert.Contains(t, msg, "Jane")
		assert.NotContains(t, msg, "Doe")
		assert.Contains(t, msg, "retirement")
		assert.Contains(t, msg, "72%")
		assert.NotContains(t, msg, "72.0")
	}
}

func TestTemplateGenerator_RenderPerChange(t *testing.T) {
	g := NewTemplateGenerator(nil)

	increased := g.Render(janeRequest(domain.ProgressIncreased, ""))
	same := g.Render(janeRequest(domain.ProgressSame, ""))
	decreased := g.Render(janeRequest(domain.ProgressDecreased, ""))

	assert.Contains(t, same[0], "holding steady")
	assert.Contains(t, decreased[0], "refocus")
	assert.NotEqual(t, increased, same)
	assert.NotEqual(t, same, decreased)

	// Unknown classifications use the decreased set
	assert.Equal(t, decreased, g.Render(janeRequest(domain.ProgressChange("unknown"), "")))
}

func TestTemplateGenerator_RenderKeepsProductText(t *testing.T) {
	g := NewTemplateGenerator(nil)

	same := g.Render(janeRequest(domain.ProgressSame, ""))
	decreased := g.Render(janeRequest(domain.ProgressDecreased, ""))

	assert.Equal(t, []string{
		"Hi Jane 👋, you're holding steady at 72% of your retirement goal. Staying consistent is powerful 💪 — let's aim to level up next month! 🚀",
		"Hey Jane, your retirement progress is steady at 72%. Consistency counts! Let's push for more next month! ✨",
		"Jane, you're still at 72% for your retirement goal. Every bit counts — let's make a move next month! 💡",
	}, same)
	assert.Equal(t, []string{
		"Hi Jane 👋, your retirement progress is at 72%. Let's refocus and get back on track next month! 💪",
		"Hey Jane, you're at 72% for your retirement goal. Setbacks happen — you've got this! 🚨",
		"Jane, your retirement goal is now at 72%. Let's rally and aim higher next month! 🌱",
	}, decreased)
}

func TestTemplateGenerator_ExcludesLastMessage(t *testing.T) {
	g := NewTemplateGenerator(nil)
	all := g.Render(janeRequest(domain.ProgressIncreased, ""))
	last := all[1]

	candidates := g.Candidates(janeRequest(domain.ProgressIncreased, last))
	assert.Len(t, candidates, 2)
	assert.NotContains(t, candidates, last)

	counts := make(map[string]int)
	const trials = 3000
	for i := 0; i < trials; i++ {
		msg, err := g.Generate(context.Background(), janeRequest(domain.ProgressIncreased, last))
		require.NoError(t, err)
		require.NotEqual(t, last, msg)
		counts[msg]++
	}

	assert.Len(t, counts, 2)
	for _, msg := range candidates {
		share := float64(counts[msg]) / trials
		assert.InDelta(t, 0.5, share, 0.1, "message %q picked %d times", msg, counts[msg])
	}
}

func TestTemplateGenerator_UnrelatedLastMessageKeepsAll(t *testing.T) {
	g := NewTemplateGenerator(nil)
	candidates := g.Candidates(janeRequest(domain.ProgressSame, "something else entirely"))
	assert.Len(t, candidates, 3)
}

func TestTemplateGenerator_InjectedRandIsDeterministic(t *testing.T) {
	req := janeRequest(domain.ProgressDecreased, "")
	all := NewTemplateGenerator(nil).Render(req)

	for i := range all {
		g := NewTemplateGenerator(fixedRand{index: i})
		msg, err := g.Generate(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, all[i], msg)
	}
}

func TestMessageRequest_Formatting(t *testing.T) {
	tests := []struct {
		percent string
		want    string
	}{
		{"72.0", "72"},
		{"72.5", "72.5"},
		{"100", "100"},
		{"0.0", "0"},
	}
	for _, tt := range tests {
		req := MessageRequest{ProgressPercent: d(tt.percent)}
		assert.Equal(t, tt.want, req.PercentString())
	}

	req := MessageRequest{ClientName: "Jane Doe", GoalType: "Education"}
	assert.Equal(t, "Jane", req.FirstName())
	assert.Equal(t, "education", req.GoalLabel())
}
