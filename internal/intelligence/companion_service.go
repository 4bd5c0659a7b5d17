package intelligence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/mindsync/internal/llm"
	"github.com/alexanderramin/mindsync/internal/triage"
)

// MaxHistoryTurns caps how many earlier turns are sent with each reply request.
const MaxHistoryTurns = 20

// ErrEmptyReply is returned when the model answers with nothing usable.
var ErrEmptyReply = errors.New("empty companion reply")

// CompanionService writes conversational replies with an LLM, given the
// session's earlier turns.
type CompanionService struct {
	client llm.LLMClient
}

// NewCompanionService creates a CompanionService backed by client.
func NewCompanionService(client llm.LLMClient) *CompanionService {
	return &CompanionService{client: client}
}

// Reply generates the assistant's answer to message. The triage result is
// passed to the model as a tone hint. Crisis messages never reach this
// method; callers answer those with triage.CrisisMessage.
func (s *CompanionService) Reply(ctx context.Context, history []llm.Message, message string, result triage.SentimentResult) (string, error) {
	if len(history) > MaxHistoryTurns {
		history = history[len(history)-MaxHistoryTurns:]
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskCompanion,
		SystemPrompt: companionSystemPrompt,
		History:      history,
		UserPrompt:   buildCompanionUserPrompt(message, result),
	})
	if err != nil {
		return "", fmt.Errorf("llm companion generation failed: %w", err)
	}

	reply := strings.TrimSpace(resp.Text)
	if reply == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}

func buildCompanionUserPrompt(message string, result triage.SentimentResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[detected tone: %s]\n", strings.ToLower(string(result.Label)))
	b.WriteString(message)
	return b.String()
}

func isBackendDown(err error) bool {
	return errors.Is(err, llm.ErrUnavailable) || errors.Is(err, llm.ErrTimeout)
}
