package assistant

import (
	"context"
	"fmt"
	"log/slog"
)

// fallbackAssistant wraps two Assistant implementations. It calls the primary
// first; if that returns an error it logs the failure and tries the secondary.
type fallbackAssistant struct {
	primary   Assistant
	secondary Assistant
	logger    *slog.Logger
}

// NewFallback returns an Assistant that calls primary and, on failure, falls
// back to secondary. If primary is nil it goes straight to secondary; if
// secondary is nil and primary fails, the primary error is returned.
func NewFallback(primary, secondary Assistant, logger *slog.Logger) Assistant {
	return &fallbackAssistant{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

func (f *fallbackAssistant) Chat(ctx context.Context, req Request) (Response, error) {
	if f.primary != nil {
		resp, err := f.primary.Chat(ctx, req)
		if err == nil {
			return resp, nil
		}
		f.logger.Warn("assistant: primary failed, trying secondary",
			"error", err,
			"detailed", req.IncludeFullRecommendations,
		)
		if f.secondary == nil {
			return Response{}, fmt.Errorf("assistant: primary failed and no secondary configured: %w", err)
		}
	}

	return f.secondary.Chat(ctx, req)
}
