package knowledge

import (
	"context"
	"fmt"
	"strings"

	"github.com/simaogato/goalnudge-backend/internal/domain"
)

// DefaultTopK is the number of chunks sent as context when none is configured
const DefaultTopK = 7

// ChatModel answers a conversation
type ChatModel interface {
	Chat(ctx context.Context, messages []domain.ChatMessage) (string, error)
}

// Answer is the model's reply with the chunks it was given
type Answer struct {
	Text    string
	Sources []Chunk
}

// Service builds chunks from the repositories and answers questions over them
type Service struct {
	clients     domain.ClientRepository
	goals       domain.GoalRepository
	history     domain.HistoryRepository
	model       ChatModel
	advisorName string
	topK        int
}

// NewService creates a knowledge Service. topK <= 0 uses DefaultTopK.
func NewService(
	clients domain.ClientRepository,
	goals domain.GoalRepository,
	history domain.HistoryRepository,
	model ChatModel,
	advisorName string,
	topK int,
) *Service {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Service{
		clients:     clients,
		goals:       goals,
		history:     history,
		model:       model,
		advisorName: advisorName,
		topK:        topK,
	}
}

// Chat answers the last message of the conversation using the most relevant chunks as context.
// Earlier user and assistant turns are passed along as history.
func (s *Service) Chat(ctx context.Context, messages []domain.ChatMessage) (*Answer, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("messages cannot be empty: %w", domain.ErrInvalidInput)
	}
	question := strings.TrimSpace(messages[len(messages)-1].Content)
	if question == "" {
		return nil, fmt.Errorf("question cannot be empty: %w", domain.ErrInvalidInput)
	}
	if s.model == nil {
		return nil, domain.ErrLanguageGenerationUnavailable
	}

	chunks, err := s.BuildChunks(ctx)
	if err != nil {
		return nil, err
	}
	sources := Rank(question, chunks, s.topK)

	prompt := make([]domain.ChatMessage, 0, len(messages)+2)
	prompt = append(prompt,
		domain.ChatMessage{Role: domain.RoleSystem, Content: s.persona()},
		domain.ChatMessage{Role: domain.RoleSystem, Content: contextMessage(sources)},
	)
	for _, m := range messages[:len(messages)-1] {
		if m.Role == domain.RoleUser || m.Role == domain.RoleAssistant {
			prompt = append(prompt, m)
		}
	}
	prompt = append(prompt, domain.ChatMessage{Role: domain.RoleUser, Content: question})

	reply, err := s.model.Chat(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLanguageGenerationUnavailable, err)
	}

	return &Answer{Text: strings.TrimSpace(reply), Sources: sources}, nil
}

func (s *Service) persona() string {
	advisor := s.advisorName
	if advisor == "" {
		advisor = "the advisor"
	}
	return fmt.Sprintf("You are a helpful financial assistant for %s. Always try to personalize your answers.", advisor)
}

func contextMessage(sources []Chunk) string {
	texts := make([]string, len(sources))
	for i, c := range sources {
		texts[i] = c.Text
	}
	return "Answer using the following client records. If they do not contain the answer, say so.\n\n" +
		strings.Join(texts, "\n\n---\n\n")
}
