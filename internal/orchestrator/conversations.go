package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/nyashahama/dengue-assessment-console/internal/assistant"
	"github.com/nyashahama/dengue-assessment-console/internal/format"
	"github.com/nyashahama/dengue-assessment-console/internal/session"
)

const (
	// ApologyMessage replaces the assistant's reply when an exchange fails.
	ApologyMessage = "Sorry, I'm having trouble connecting right now. Please try again in a moment."

	// DetailedRecommendationsPrompt is sent once after every new assessment.
	DetailedRecommendationsPrompt = "Based on this risk assessment, please give detailed, personalized recommendations: " +
		"immediate actions, prevention measures, diet and hydration, and the warning signs that need urgent medical care."
)

var (
	// ErrEmptyMessage is returned by Send for a blank message. Nothing is shown.
	ErrEmptyMessage = errors.New("conversation: empty message")

	// ErrSuperseded is returned when a follow-up fires after a newer
	// assessment replaced the one it was scheduled for.
	ErrSuperseded = errors.New("conversation: assessment superseded")
)

// Conversations is the conversation orchestrator for one operator session.
type Conversations struct {
	session   *session.Session
	assistant assistant.Assistant
	view      View
	logger    *slog.Logger
}

// NewConversations wires a conversation orchestrator.
func NewConversations(sess *session.Session, a assistant.Assistant, view View, logger *slog.Logger) *Conversations {
	return &Conversations{session: sess, assistant: a, view: view, logger: logger}
}

// Send shows message as a pending user turn and runs one exchange. It
// returns the formatted reply.
func (c *Conversations) Send(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}

	turn := c.session.AppendUserTurn(message)
	c.view.AppendUserTurn(turn.ID, message)

	return c.exchange(ctx, c.session.Snapshot(), message, false, turn.ID)
}

// RequestDetailedRecommendations runs the fixed follow-up exchange. The
// prompt is not shown as a user turn.
func (c *Conversations) RequestDetailedRecommendations(ctx context.Context) (string, error) {
	return c.exchange(ctx, c.session.Snapshot(), DetailedRecommendationsPrompt, true, uuid.Nil)
}

// detailedFor runs the follow-up for the assessment that opened generation.
// It returns ErrSuperseded without calling the assistant once a newer
// assessment is current.
func (c *Conversations) detailedFor(ctx context.Context, generation uint64) (string, error) {
	snap := c.session.Snapshot()
	if snap.Generation != generation {
		return "", ErrSuperseded
	}
	return c.exchange(ctx, snap, DetailedRecommendationsPrompt, true, uuid.Nil)
}

// exchange sends one request built from snap and applies the result. On
// failure the transcript is left exactly as it was.
func (c *Conversations) exchange(ctx context.Context, snap session.Snapshot, message string, full bool, turnID uuid.UUID) (string, error) {
	req := assistant.Request{
		Message:                    message,
		ConversationHistory:        snap.Transcript,
		RiskAssessment:             riskContext(snap.Assessment),
		IncludeFullRecommendations: full,
	}

	resp, err := c.call(ctx, req)
	if err != nil {
		c.view.AppendAssistant(ApologyMessage)
		c.logger.Warn("conversation: exchange failed", "error", err, "detailed", full)
		return "", fmt.Errorf("conversation: %w", err)
	}

	if !c.session.ReplaceTranscript(snap.Generation, resp.ConversationHistory, turnID) {
		c.logger.Info("conversation: reply arrived after a new assessment, transcript kept",
			"request_generation", snap.Generation,
		)
	}
	if turnID != uuid.Nil {
		c.view.ConfirmUserTurn(turnID)
	}

	html := format.FormatAssistantText(resp.Response)
	c.view.AppendAssistant(html)
	return html, nil
}

// call wraps the assistant round trip in the typing indicator. The indicator
// is removed on every path, including panics in the assistant.
func (c *Conversations) call(ctx context.Context, req assistant.Request) (assistant.Response, error) {
	c.view.SetTyping(true)
	defer c.view.SetTyping(false)
	return c.assistant.Chat(ctx, req)
}

func riskContext(a *session.RiskAssessment) *assistant.RiskContext {
	if a == nil {
		return nil
	}
	return &assistant.RiskContext{
		Probability: a.Probability,
		RiskLevel:   string(a.Level),
		Age:         a.Age,
		Gender:      a.Gender,
		NS1:         bit(a.NS1),
		IgG:         bit(a.IgG),
		IgM:         bit(a.IgM),
		Area:        a.Area,
		District:    a.District,
	}
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}
