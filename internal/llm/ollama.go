package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// NewOllamaClient creates an LLMClient that talks to a local Ollama instance.
func NewOllamaClient(cfg LLMConfig, observer Observer) LLMClient {
	return newClient(cfg, newOllamaBackend(cfg.Endpoint), observer)
}

type ollamaBackend struct {
	endpoint string
	http     *http.Client
}

func newOllamaBackend(endpoint string) *ollamaBackend {
	if endpoint == "" {
		endpoint = DefaultConfig().Endpoint
	}
	return &ollamaBackend{
		endpoint: strings.TrimRight(endpoint, "/"),
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

// ollamaRequest is the JSON body sent to POST /api/generate.
type ollamaRequest struct {
	Model   string        `json:"model"`
	System  string        `json:"system,omitempty"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// ollamaResponse is the JSON body returned by POST /api/generate (non-streaming).
type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

func (b *ollamaBackend) complete(ctx context.Context, call completionCall) (completion, error) {
	body := ollamaRequest{
		Model:  call.Model,
		System: call.System,
		Prompt: transcriptPrompt(call.History, call.Prompt),
		Stream: false,
		Options: ollamaOptions{
			Temperature: call.Temperature,
			NumPredict:  call.MaxTokens,
		},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return completion{}, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint+"/api/generate", bytes.NewReader(data))
	if err != nil {
		return completion{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := b.http.Do(httpReq)
	if err != nil {
		return completion{}, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return completion{}, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return completion{}, fmt.Errorf("ollama returned status %d: %s", httpResp.StatusCode, string(respBody))
	}

	var resp ollamaResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return completion{}, fmt.Errorf("decoding response: %w", err)
	}

	return completion{Text: resp.Response, Model: resp.Model}, nil
}

func (b *ollamaBackend) ping(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.endpoint+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// transcriptPrompt folds earlier turns into a single prompt for the
// completion-style /api/generate endpoint.
func transcriptPrompt(history []Message, prompt string) string {
	if len(history) == 0 {
		return prompt
	}
	var b strings.Builder
	for _, m := range history {
		speaker := "User"
		if m.Role == RoleAssistant {
			speaker = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n", speaker, m.Content)
	}
	fmt.Fprintf(&b, "User: %s\nAssistant:", prompt)
	return b.String()
}
