package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/msomdec/skillbarter/internal/domain"
	"github.com/msomdec/skillbarter/internal/oracle"
)

// Canned replies shown when the language model is unavailable.
const (
	insightFallback = "Start bartering to see personalized tips!"
	insightEmpty    = "Start exchanging skills to see tips!"
	chatFallback    = "Gemini service is currently at capacity. Please try again in a moment."
)

// AssistantService fronts the advisor for the dashboard insight and
// the guide chat, degrading to canned text on advisor failure.
type AssistantService struct {
	accounts domain.AccountRepository
	advisor  oracle.Advisor
	logger   *slog.Logger
}

func NewAssistantService(accounts domain.AccountRepository, advisor oracle.Advisor, logger *slog.Logger) *AssistantService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssistantService{accounts: accounts, advisor: advisor, logger: logger}
}

// Insight returns a one-line personalized tip for the dashboard.
// Advisor failures never surface to the caller.
func (s *AssistantService) Insight(ctx context.Context, accountID string) (string, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return "", err
	}

	text, err := s.advisor.Insight(ctx, account)
	if err != nil {
		s.logger.Warn("insight generation failed", "error", err)
		return insightFallback, nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return insightEmpty, nil
	}
	return text, nil
}

// Chat sends one message to the guide with the running history and
// returns the reply.
func (s *AssistantService) Chat(ctx context.Context, accountID, message string, history []oracle.Turn) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("%w: message is required", domain.ErrInvalidInput)
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return "", err
	}

	reply, err := s.advisor.Chat(ctx, account, message, history)
	if err != nil {
		s.logger.Warn("guide chat failed", "error", err)
		return chatFallback, nil
	}
	return reply, nil
}
