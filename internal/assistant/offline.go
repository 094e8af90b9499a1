package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/nyashahama/dengue-assessment-console/internal/format"
)

// historyLimit mirrors the remote assistant, which keeps the last 10 turns.
const historyLimit = 10

type offlineAssistant struct{}

// NewOffline returns an Assistant that answers from fixed keyword rules
// without any network call. It keeps the same transcript protocol as the
// remote one: {role, content} turns, trimmed to the last 10.
func NewOffline() Assistant {
	return offlineAssistant{}
}

type turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (offlineAssistant) Chat(_ context.Context, req Request) (Response, error) {
	reply := offlineReply(req)

	history := make([]json.RawMessage, 0, len(req.ConversationHistory)+2)
	history = append(history, req.ConversationHistory...)
	for _, t := range []turn{{"user", req.Message}, {"assistant", reply}} {
		b, err := json.Marshal(t)
		if err != nil {
			return Response{}, fmt.Errorf("assistant: marshal turn: %w", err)
		}
		history = append(history, b)
	}
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	return Response{Response: reply, ConversationHistory: history}, nil
}

func offlineReply(req Request) string {
	if req.IncludeFullRecommendations && req.RiskAssessment != nil {
		return detailedReply(req.RiskAssessment)
	}

	msg := strings.ToLower(req.Message)
	words := strings.FieldsFunc(msg, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	switch {
	case slices.Contains(words, "hello") || slices.Contains(words, "hi"):
		return "Hello! I'm your Dengue Intelligence Assistant. How can I help you today?"
	case strings.Contains(msg, "risk") || strings.Contains(msg, "dengue"):
		return "Dengue risk is calculated based on patient factors (age, gender, test results) and location data. " +
			"The system analyzes patterns from historical cases to provide personalized risk assessment."
	case strings.Contains(msg, "test") || strings.Contains(msg, "ns1") || strings.Contains(msg, "igg") || strings.Contains(msg, "igm"):
		return "The test results help determine the stage and nature of potential dengue infection. " +
			"NS1 indicates acute infection, while IgG and IgM indicate immune response. " +
			"The combination helps assess risk level."
	case strings.Contains(msg, "prevention") || strings.Contains(msg, "prevent"):
		return "Key prevention measures include eliminating standing water, using mosquito repellent, " +
			"wearing protective clothing, and maintaining clean surroundings. " +
			"Location-specific factors like area type and housing also influence risk."
	case strings.Contains(msg, "thank"):
		return "You're welcome! Feel free to ask if you have more questions about dengue risk assessment."
	default:
		return "I'm here to help with dengue risk assessment and prevention advice. " +
			"You can ask about risk factors, test results interpretation, prevention measures, or location-specific recommendations."
	}
}

func detailedReply(rc *RiskContext) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s risk (%d%%) for %s, %s**\n", rc.RiskLevel, format.Percent(rc.Probability), rc.Area, rc.District)
	switch strings.ToLower(rc.RiskLevel) {
	case "high":
		sb.WriteString("**Immediate actions**\n")
		sb.WriteString("- Consult a healthcare provider now, especially with fever, headache or joint pain\n")
		sb.WriteString("- Avoid aspirin and ibuprofen\n")
		sb.WriteString("- Stay hydrated and rest\n")
	case "medium":
		sb.WriteString("**Enhanced prevention**\n")
		sb.WriteString("- Use repellent and mosquito nets\n")
		sb.WriteString("- Clear standing water weekly\n")
		sb.WriteString("- Monitor symptoms closely\n")
	default:
		sb.WriteString("**General prevention**\n")
		sb.WriteString("- Keep basic mosquito prevention habits\n")
		sb.WriteString("- Continue routine monitoring\n")
	}
	sb.WriteString("**Seek medical help if** high fever, severe headache, pain behind the eyes, or vomiting develops.")
	return sb.String()
}
