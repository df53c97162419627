package deepseek

import (
	"strings"

	"learn-proxy/api/internal/llm/openai"
)

const (
	DefaultBaseURL = "https://api.deepseek.com/v1"
	DefaultModel   = "deepseek-chat"
)

// Engine talks to DeepSeek through its OpenAI-compatible chat API.
// Text only; JSON mode is supported by deepseek-chat.
type Engine struct {
	*openai.Engine
}

func New(key, model string) *Engine {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &Engine{Engine: openai.New(key, model, DefaultBaseURL)}
}

func (e *Engine) Name() string { return "deepseek" }
