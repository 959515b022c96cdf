package evaluator

import (
	"context"
	"errors"
	"testing"

	"github.com/simaogato/goalnudge-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCompleter is a mock implementation of TextCompleter for testing
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockGenerator is a mock implementation of MessageGenerator for testing
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, req MessageRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func TestRemoteGenerator_Prompt(t *testing.T) {
	g := NewRemoteGenerator(nil, "Dave")
	prompt := g.Prompt(janeRequest(domain.ProgressIncreased, "Hi Jane, old news"))

	assert.Contains(t, prompt, "financial assistant for Dave")
	assert.Contains(t, prompt, "for Jane about their retirement goal")
	assert.Contains(t, prompt, "They are at 72% of their goal")
	assert.Contains(t, prompt, "has increased")
	assert.Contains(t, prompt, "'Hi Jane, old news'")
}

func TestRemoteGenerator_Generate(t *testing.T) {
	ctx := context.Background()
	req := janeRequest(domain.ProgressSame, "")

	t.Run("Returns trimmed completion", func(t *testing.T) {
		completer := new(MockCompleter)
		completer.On("Complete", ctx, mock.AnythingOfType("string")).Return("  Keep going Jane! 🚀 \n", nil)

		msg, err := NewRemoteGenerator(completer, "Dave").Generate(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "Keep going Jane! 🚀", msg)
		completer.AssertExpectations(t)
	})

	t.Run("Completer error is unavailable", func(t *testing.T) {
		completer := new(MockCompleter)
		completer.On("Complete", ctx, mock.Anything).Return("", errors.New("connection refused"))

		_, err := NewRemoteGenerator(completer, "Dave").Generate(ctx, req)
		assert.ErrorIs(t, err, domain.ErrLanguageGenerationUnavailable)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("Blank completion is unavailable", func(t *testing.T) {
		completer := new(MockCompleter)
		completer.On("Complete", ctx, mock.Anything).Return("   ", nil)

		_, err := NewRemoteGenerator(completer, "Dave").Generate(ctx, req)
		assert.ErrorIs(t, err, domain.ErrLanguageGenerationUnavailable)
	})

	t.Run("Unconfigured completer is unavailable", func(t *testing.T) {
		_, err := NewRemoteGenerator(nil, "").Generate(ctx, req)
		assert.ErrorIs(t, err, domain.ErrLanguageGenerationUnavailable)
	})
}

func TestFallbackGenerator(t *testing.T) {
	ctx := context.Background()
	req := janeRequest(domain.ProgressIncreased, "")

	t.Run("Primary message wins", func(t *testing.T) {
		primary := new(MockGenerator)
		secondary := new(MockGenerator)
		primary.On("Generate", ctx, req).Return("from the model", nil)

		msg, err := NewFallbackGenerator(primary, secondary, nil).Generate(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "from the model", msg)
		secondary.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("Primary error uses secondary", func(t *testing.T) {
		primary := new(MockGenerator)
		secondary := new(MockGenerator)
		primary.On("Generate", ctx, req).Return("", domain.ErrLanguageGenerationUnavailable)
		secondary.On("Generate", ctx, req).Return("from a template", nil)

		msg, err := NewFallbackGenerator(primary, secondary, nil).Generate(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "from a template", msg)
		primary.AssertExpectations(t)
		secondary.AssertExpectations(t)
	})

	t.Run("Primary empty message uses secondary", func(t *testing.T) {
		primary := new(MockGenerator)
		secondary := new(MockGenerator)
		primary.On("Generate", ctx, req).Return("", nil)
		secondary.On("Generate", ctx, req).Return("from a template", nil)

		msg, err := NewFallbackGenerator(primary, secondary, nil).Generate(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "from a template", msg)
	})
}
