package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"learn-proxy/api/internal/llm"
)

// Engine talks to a local Ollama server.
type Engine struct {
	Model  string
	client *api.Client
}

func New(baseURL, model string) (*Engine, error) {
	return NewWithHTTPClient(baseURL, model, &http.Client{Timeout: 120 * time.Second})
}

func NewWithHTTPClient(baseURL, model string, httpc *http.Client) (*Engine, error) {
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}
	return &Engine{
		Model:  strings.TrimSpace(model),
		client: api.NewClient(base, httpc),
	}, nil
}

func (e *Engine) Name() string     { return "ollama" }
func (e *Engine) GetModel() string { return e.Model }

func (e *Engine) Complete(ctx context.Context, in llm.Request) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model:  e.Model,
		Stream: &stream,
		Messages: []api.Message{
			{Role: "system", Content: in.System},
			{Role: "user", Content: in.User},
		},
		Options: map[string]any{"temperature": in.Temperature},
	}
	if in.JSON {
		req.Format = json.RawMessage(`"json"`)
	}

	var b strings.Builder
	err := e.client.Chat(ctx, req, func(cr api.ChatResponse) error {
		b.WriteString(cr.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama complete: %w", err)
	}
	return strings.TrimSpace(b.String()), nil
}
