package learn

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"learn-proxy/api/internal/llm"
	"learn-proxy/api/internal/util"
)

// Task is one structured-generation call: prompts, sampling and the JSON
// schema the reply has to satisfy.
type Task struct {
	Name        string
	System      string
	User        string
	Temperature float32
	Schema      string
}

// Generate runs t against eng and decodes the reply into T.
//
// Provider failures come back wrapped as-is, a blank reply as
// ErrEmptyGeneration, and undecodable or schema-violating JSON as
// ErrMalformedResponse.
func Generate[T any](ctx context.Context, eng llm.Engine, t Task) (T, error) {
	var zero T

	text, err := eng.Complete(ctx, llm.Request{
		System:      t.System,
		User:        t.User,
		Temperature: t.Temperature,
		JSON:        true,
	})
	if err != nil {
		return zero, fmt.Errorf("%s: %s: %w", t.Name, eng.Name(), err)
	}
	if strings.TrimSpace(text) == "" {
		return zero, fmt.Errorf("%s: %s: %w", t.Name, eng.Name(), ErrEmptyGeneration)
	}

	raw := []byte(util.StripCodeFences(text))
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, fmt.Errorf("%s: %w: %v (body=%q)", t.Name, ErrMalformedResponse, err, util.Truncate(text, 256))
	}
	if err := validateSchema(t.Schema, raw); err != nil {
		return zero, fmt.Errorf("%s: %w: %v", t.Name, ErrMalformedResponse, err)
	}
	return out, nil
}
