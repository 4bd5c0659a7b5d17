package intelligence

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/mindsync/internal/llm"
	"github.com/alexanderramin/mindsync/internal/triage"
)

// DefaultAvailabilityTTL is how long a backend availability check is reused.
const DefaultAvailabilityTTL = 30 * time.Second

// SentimentService classifies message tone with an LLM. It satisfies
// triage.ExternalClassifier.
type SentimentService struct {
	client llm.LLMClient
	ttl    time.Duration
	now    func() time.Time

	mu        sync.Mutex
	checkedAt time.Time
	available bool
}

var _ triage.ExternalClassifier = (*SentimentService)(nil)

// NewSentimentService creates a SentimentService backed by client.
func NewSentimentService(client llm.LLMClient) *SentimentService {
	return &SentimentService{client: client, ttl: DefaultAvailabilityTTL, now: time.Now}
}

// sentimentLLMResponse is the JSON structure expected from the LLM.
type sentimentLLMResponse struct {
	Label string   `json:"label"`
	Score *float64 `json:"score"`
}

// Available pings the backend at most once per TTL.
func (s *SentimentService) Available(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.checkedAt.IsZero() && s.now().Sub(s.checkedAt) < s.ttl {
		return s.available
	}
	s.available = s.client.Available(ctx)
	s.checkedAt = s.now()
	return s.available
}

// Classify asks the LLM for a label and score.
func (s *SentimentService) Classify(ctx context.Context, text string) (triage.ExternalResult, error) {
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskSentiment,
		SystemPrompt: sentimentSystemPrompt,
		UserPrompt:   text,
	})
	if err != nil {
		s.markUnavailable(err)
		return triage.ExternalResult{}, fmt.Errorf("llm sentiment generation failed: %w", err)
	}

	parsed, err := llm.ExtractJSON[sentimentLLMResponse](resp.Text, validateSentimentResponse)
	if err != nil {
		return triage.ExternalResult{}, fmt.Errorf("failed to extract sentiment: %w", err)
	}

	out := triage.ExternalResult{Label: strings.ToUpper(strings.TrimSpace(parsed.Label))}
	if parsed.Score != nil {
		out.Score = *parsed.Score
		out.HasScore = true
	}
	return out, nil
}

// markUnavailable drops the cached availability after a connection failure
// so the next message skips straight to the fallback.
func (s *SentimentService) markUnavailable(err error) {
	if !isBackendDown(err) {
		return
	}
	s.mu.Lock()
	s.available = false
	s.checkedAt = s.now()
	s.mu.Unlock()
}

func validateSentimentResponse(resp sentimentLLMResponse) error {
	switch triage.Label(strings.ToUpper(strings.TrimSpace(resp.Label))) {
	case "", triage.LabelPositive, triage.LabelNegative, triage.LabelNeutral:
	default:
		return fmt.Errorf("unexpected label %q", resp.Label)
	}
	if resp.Score != nil && (*resp.Score < 0 || *resp.Score > 1) {
		return fmt.Errorf("score must be between 0 and 1, got %f", *resp.Score)
	}
	return nil
}
