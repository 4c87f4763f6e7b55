package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abhishek9978/Chatbot-infosys-springboard/internal/models"
	"github.com/pkoukk/tiktoken-go"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// Service talks to a locally reachable OpenAI-compatible endpoint (Ollama's
// /v1/ by default). One request per turn, no retries, no streaming.
type Service struct {
	llm     llms.Model
	model   string
	timeout time.Duration
	enc     *tiktoken.Tiktoken
	logger  *zap.Logger
}

func New(baseURL, token, model string, timeout time.Duration, logger *zap.Logger) (*Service, error) {
	client, err := openai.New(
		openai.WithToken(token),
		openai.WithBaseURL(baseURL),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, err
	}

	// Token counting is best-effort diagnostics; the encoder needs its BPE
	// files and may be unavailable offline.
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		logger.Warn("token counting disabled", zap.Error(err))
		enc = nil
	}

	return &Service{
		llm:     client,
		model:   model,
		timeout: timeout,
		enc:     enc,
		logger:  logger,
	}, nil
}

// Chat sends the full conversation history, roles verbatim, and returns the
// assistant reply text.
func (s *Service) Chat(ctx context.Context, messages []models.Message) (string, error) {
	payload := toPayload(messages)

	if s.enc != nil {
		s.logger.Debug("sending conversation to model",
			zap.String("model", s.model),
			zap.Int("messages", len(messages)),
			zap.Int("prompt_tokens", s.countTokens(messages)))
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.llm.GenerateContent(ctx, payload)
	if err != nil {
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	return resp.Choices[0].Content, nil
}

// toPayload converts stored messages to the wire message list. Roles map
// one-to-one; system stays system here, the display-only normalization never
// touches the payload.
func toPayload(messages []models.Message) []llms.MessageContent {
	payload := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		payload = append(payload, llms.TextParts(payloadRole(msg.Role), msg.Content))
	}
	return payload
}

func payloadRole(role string) llms.ChatMessageType {
	switch role {
	case models.RoleUser:
		return llms.ChatMessageTypeHuman
	case models.RoleSystem:
		return llms.ChatMessageTypeSystem
	default:
		return llms.ChatMessageTypeAI
	}
}

func (s *Service) countTokens(messages []models.Message) int {
	total := 0
	for _, msg := range messages {
		total += len(s.enc.Encode(msg.Content, nil, nil))
	}
	return total
}
