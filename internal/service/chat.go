package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-prophet/internal/form"
	"github.com/yourusername/pitch-prophet/internal/metrics"
	"github.com/yourusername/pitch-prophet/internal/repository"
)

const chatSystemPrompt = `You are a knowledgeable football analyst assisting a betting dashboard user. ` +
	`Answer the question using only the match context provided. Be concise and factual; ` +
	`if the context does not cover the question, say so.`

// chatHistoryLimit caps how much history is loaded per side for context
const chatHistoryLimit = 10

// Completer is the slice of the LLM client the assistant needs
type Completer interface {
	Complete(ctx context.Context, system, user string, jsonMode bool) (string, error)
}

// ChatService answers free-form questions about a specific fixture
type ChatService struct {
	store  *repository.Store
	client Completer
	logger *logrus.Logger
}

// NewChatService creates a chat assistant over the store and LLM client
func NewChatService(store *repository.Store, client Completer, logger *logrus.Logger) *ChatService {
	return &ChatService{store: store, client: client, logger: logger}
}

// Ask answers a question about one event using both teams' recent history.
// An unknown event returns models.ErrNotFound.
func (c *ChatService) Ask(ctx context.Context, eventID uuid.UUID, question string) (string, error) {
	metrics.ChatRequestsTotal.Inc()

	event, err := c.store.Events.GetByID(ctx, eventID)
	if err != nil {
		return "", err
	}

	homeMatches, err := c.store.Matches.GetByTeam(ctx, event.HomeTeam, chatHistoryLimit)
	if err != nil {
		return "", fmt.Errorf("failed to load home history: %w", err)
	}
	awayMatches, err := c.store.Matches.GetByTeam(ctx, event.AwayTeam, chatHistoryLimit)
	if err != nil {
		return "", fmt.Errorf("failed to load away history: %w", err)
	}
	h2hMatches, err := c.store.Matches.GetHeadToHead(ctx, event.HomeTeam, event.AwayTeam, chatHistoryLimit)
	if err != nil {
		return "", fmt.Errorf("failed to load head-to-head history: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Fixture: %s vs %s in the %s, kickoff %s.\n\n",
		event.HomeTeam, event.AwayTeam, event.League, event.Kickoff.Format("Mon 2 Jan 15:04 MST"))

	homeForm := form.Aggregate(event.HomeTeam, homeMatches)
	awayForm := form.Aggregate(event.AwayTeam, awayMatches)
	fmt.Fprintf(&b, "%s form: %s over %d matches.\n", event.HomeTeam, homeForm.RecentString(), homeForm.Played)
	fmt.Fprintf(&b, "%s form: %s over %d matches.\n", event.AwayTeam, awayForm.RecentString(), awayForm.Played)

	h2h := form.SummarizeHeadToHead(event.HomeTeam, event.AwayTeam, h2hMatches)
	fmt.Fprintf(&b, "%s.\n\nQuestion: %s", h2h.Describe(event.HomeTeam, event.AwayTeam), question)

	answer, err := c.client.Complete(ctx, chatSystemPrompt, b.String(), false)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"event_id": eventID,
		"question": question,
	}).Debug("Chat question answered")

	return answer, nil
}
