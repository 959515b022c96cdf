// Package knowledge turns goals and their history into text chunks and answers
// advisor questions grounded on the most relevant ones.
package knowledge

import (
	"context"
	"fmt"
	"strings"

	"github.com/simaogato/goalnudge-backend/internal/domain"
)

// SummaryID identifies the client summary chunk
const SummaryID = "summary"

// Chunk is a unit of retrievable text
type Chunk struct {
	ClientID string
	GoalID   string
	Text     string
}

// ID returns a stable identifier for the chunk
func (c Chunk) ID() string {
	return c.ClientID + "_" + c.GoalID
}

// BuildChunks returns one chunk per goal followed by a client summary chunk
func (s *Service) BuildChunks(ctx context.Context) ([]Chunk, error) {
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	byID := make(map[string]*domain.Client, len(clients))
	for _, c := range clients {
		byID[c.ID.String()] = c
	}

	goals, err := s.goals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	chunks := make([]Chunk, 0, len(goals)+1)
	for _, goal := range goals {
		history, err := s.history.ListByGoal(ctx, goal.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list history of goal %s: %w", goal.ID, err)
		}

		clientName := ""
		if c, ok := byID[goal.ClientID.String()]; ok {
			clientName = c.Name
		}

		chunks = append(chunks, Chunk{
			ClientID: goal.ClientID.String(),
			GoalID:   goal.ID.String(),
			Text:     goalText(clientName, goal, history),
		})
	}

	chunks = append(chunks, Chunk{ClientID: SummaryID, GoalID: SummaryID, Text: summaryText(clients)})
	return chunks, nil
}

func goalText(clientName string, goal *domain.Goal, history []*domain.GoalHistory) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Client: %s\n", clientName)
	fmt.Fprintf(&b, "Goal: %s\n", goal.GoalType)
	fmt.Fprintf(&b, "Target: $%s\n", goal.GoalAmount.StringFixed(2))
	fmt.Fprintf(&b, "Initial: $%s\n", goal.InitialAmount.StringFixed(2))
	fmt.Fprintf(&b, "Current: $%s\n", goal.CurrentAmount.StringFixed(2))
	fmt.Fprintf(&b, "Monthly Contribution: $%s\n", goal.MonthlyContribution.StringFixed(2))
	fmt.Fprintf(&b, "Withdrawal Period: %d months\n", goal.WithdrawalPeriodMonths)
	fmt.Fprintf(&b, "Expected Return: %s%%\n", goal.ExpectedReturnRate.Shift(2).StringFixed(2))
	b.WriteString("History:")

	for _, h := range history {
		fmt.Fprintf(&b, "\n- %s: $%s (Goal: $%s) - \"%s\"",
			h.CreatedAt.Format("2006-01-02"),
			h.CurrentAmount.StringFixed(2),
			h.GoalAmount.StringFixed(2),
			h.MessageSent,
		)
	}

	return b.String()
}

func summaryText(clients []*domain.Client) string {
	names := make([]string, 0, len(clients))
	for _, c := range clients {
		names = append(names, c.Name)
	}
	list := strings.Join(names, ", ")
	n := len(clients)

	return fmt.Sprintf(
		"Client summary: There are %[1]d clients in the system. Client names: %[2]s. "+
			"Total number of clients: %[1]d. How many clients do I have? You have %[1]d clients. "+
			"List of all clients: %[2]s. "+
			"Use this information to answer questions about the number of clients, client count, or client list.",
		n, list,
	)
}
