package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// Role marks who spoke a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one earlier conversation turn.
type Message struct {
	Role    Role
	Content string
}

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	History      []Message // earlier turns, oldest first
	UserPrompt   string
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// LLMClient provides access to a language model for text generation.
type LLMClient interface {
	// Generate sends a prompt and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Available checks whether the backend is reachable.
	Available(ctx context.Context) bool
}

// completionCall is what a backend receives for a single attempt.
type completionCall struct {
	Model       string
	System      string
	History     []Message
	Prompt      string
	Temperature float64
	MaxTokens   int
}

type completion struct {
	Text  string
	Model string
}

// backend is one provider's wire protocol. Retries, timeouts and observer
// events are handled by client.
type backend interface {
	complete(ctx context.Context, call completionCall) (completion, error)
	ping(ctx context.Context) bool
}

// client implements LLMClient over a backend.
type client struct {
	cfg      LLMConfig
	backend  backend
	observer Observer
}

// NewClient creates an LLMClient for cfg.Provider.
func NewClient(ctx context.Context, cfg LLMConfig, observer Observer) (LLMClient, error) {
	switch cfg.Provider {
	case ProviderOllama, "":
		return NewOllamaClient(cfg, observer), nil
	case ProviderOpenAI:
		return NewOpenAIClient(cfg, observer)
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg, observer)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

func newClient(cfg LLMConfig, b backend, observer Observer) *client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &client{cfg: cfg, backend: b, observer: observer}
}

func (c *client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	taskCfg := c.cfg.Tasks[req.Task]
	temp := taskCfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTok := taskCfg.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}

	call := completionCall{
		Model:       c.cfg.Model,
		System:      req.SystemPrompt,
		History:     req.History,
		Prompt:      req.UserPrompt,
		Temperature: temp,
		MaxTokens:   maxTok,
	}

	timeout := time.Duration(c.cfg.TaskTimeout(req.Task)) * time.Millisecond
	attempts := 1 + c.cfg.MaxRetries

	var lastErr error
	made := 0
	for i := 0; i < attempts; i++ {
		made++
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		out, err := c.backend.complete(attemptCtx, call)
		timedOut := errors.Is(attemptCtx.Err(), context.DeadlineExceeded)
		cancel()

		if err == nil {
			latency := time.Since(start).Milliseconds()
			c.observer.OnCallComplete(LLMCallEvent{
				Task:      req.Task,
				Provider:  c.cfg.Provider,
				Model:     c.cfg.Model,
				LatencyMs: latency,
				Attempts:  i + 1,
				Success:   true,
			})
			model := out.Model
			if model == "" {
				model = c.cfg.Model
			}
			return &GenerateResponse{Text: out.Text, Model: model, LatencyMs: latency}, nil
		}

		lastErr = err
		if timedOut {
			lastErr = fmt.Errorf("%w: %v", ErrTimeout, err)
		}

		// The caller gave up; further attempts cannot succeed.
		if ctx.Err() != nil {
			lastErr = fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
			break
		}
	}

	finalErr := classifyError(lastErr)
	c.observer.OnCallComplete(LLMCallEvent{
		Task:      req.Task,
		Provider:  c.cfg.Provider,
		Model:     c.cfg.Model,
		LatencyMs: time.Since(start).Milliseconds(),
		Attempts:  made,
		Success:   false,
		ErrorCode: errorCode(finalErr),
	})
	return nil, finalErr
}

func (c *client) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.backend.ping(ctx)
}

func classifyError(err error) error {
	switch {
	case errors.Is(err, ErrTimeout):
		return ErrTimeout
	case isConnectionError(err):
		return ErrUnavailable
	case errors.Is(err, ErrInvalidOutput):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrRetryExhausted, err)
	}
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	default:
		return "UNKNOWN"
	}
}
