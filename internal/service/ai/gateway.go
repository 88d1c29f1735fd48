package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/prepground/mockview/backend/internal/config"
	"github.com/prepground/mockview/backend/internal/model/interview"
)

// ErrTimeout marks a model call that exceeded the configured deadline,
// distinguishable from other provider failures.
var ErrTimeout = errors.New("llm request timed out")

// Gateway is the surface the rest of the service uses to talk to the chat
// model: stateless completions plus stateful multi-turn chat.
type Gateway interface {
	Complete(ctx context.Context, prompt string) (string, error)
	StartChat(systemPrompt, ack string) *interview.ChatContext
	Send(ctx context.Context, chat *interview.ChatContext, text string) (string, error)
}

// Service backs Gateway with an eino chat model.
type Service struct {
	chatModel model.ChatModel
	timeout   time.Duration
}

// NewService creates the gateway from the configured provider.
func NewService(ctx context.Context, cfg config.LLMConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	return &Service{chatModel: chatModel, timeout: cfg.RequestTimeout}, nil
}

// Complete runs a one-shot prompt with no conversation state.
func (s *Service) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// StartChat seeds a fresh chat context with the two-turn priming preamble:
// the system instruction as a user turn followed by the fixed model
// acknowledgment. Everything after appends to this same sequence.
func (s *Service) StartChat(systemPrompt, ack string) *interview.ChatContext {
	return interview.NewChatContext(
		schema.UserMessage(systemPrompt),
		schema.AssistantMessage(ack, nil),
	)
}

// Send appends the user turn, generates over the full history, appends the
// model reply, and returns the reply text.
func (s *Service) Send(ctx context.Context, chat *interview.ChatContext, text string) (string, error) {
	chat.Append(schema.UserMessage(text))

	resp, err := s.generate(ctx, chat.Snapshot())
	if err != nil {
		return "", err
	}

	chat.Append(schema.AssistantMessage(resp.Content, nil))
	return resp.Content, nil
}

func (s *Service) generate(ctx context.Context, messages []*schema.Message) (*schema.Message, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	resp, err := s.chatModel.Generate(callCtx, messages)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, s.timeout)
		}
		return nil, fmt.Errorf("llm generate failed: %w", err)
	}
	if resp == nil {
		return nil, errors.New("llm returned empty response")
	}

	log.Printf("[ai] generated %d chars in %s over %d turns", len(resp.Content), time.Since(started).Round(time.Millisecond), len(messages))
	return resp, nil
}
