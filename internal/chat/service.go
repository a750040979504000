package chat

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kjstillabower/climate-resilience-service/internal/observability"
)

// Completer turns a prompt into model text. Implemented by GeminiClient.
type Completer interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service answers single chat turns. It keeps no conversation state.
type Service struct {
	llm Completer
}

func NewService(llm Completer) (*Service, error) {
	if llm == nil {
		return nil, errors.New("chat: completer must not be nil")
	}
	return &Service{llm: llm}, nil
}

// Reply composes the prompt for mode and returns the model's answer. A mode outside the enum
// returns ErrUnknownMode without calling the model. Gateway failures are returned wrapped;
// there is no retry or fallback text.
func (s *Service) Reply(ctx context.Context, message string, mode Mode) (string, error) {
	prompt, err := ComposePrompt(mode, message)
	if err != nil {
		return "", fmt.Errorf("chat reply: %w", err)
	}
	observability.ChatRequestsTotal.WithLabelValues(string(mode)).Inc()

	answer, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("chat completion failed",
			zap.String("mode", string(mode)),
			zap.Error(err),
		)
		return "", fmt.Errorf("chat reply: %w", err)
	}
	return answer, nil
}
