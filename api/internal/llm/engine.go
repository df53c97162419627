package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownEngine is returned by GetEngine for a name nothing is registered under.
var ErrUnknownEngine = errors.New("unknown llm_name")

// Request is one system+user message pair sent to a completion provider.
type Request struct {
	System      string
	User        string
	Temperature float32
	// JSON asks the provider to reply with a single JSON object.
	JSON bool
}

type Engine interface {
	Name() string
	GetModel() string
	// Complete returns the raw reply text. An empty string with a nil error
	// means the provider produced no content.
	Complete(ctx context.Context, in Request) (string, error)
}

// Engines resolves an llm_name to a configured engine.
type Engines struct {
	Default string
	byName  map[string]Engine
}

func NewEngines(def string) *Engines {
	return &Engines{Default: strings.ToLower(strings.TrimSpace(def)), byName: map[string]Engine{}}
}

// Register adds e under its Name() and any aliases.
func (e *Engines) Register(eng Engine, aliases ...string) *Engines {
	if eng == nil {
		return e
	}
	e.byName[strings.ToLower(eng.Name())] = eng
	for _, a := range aliases {
		e.byName[strings.ToLower(a)] = eng
	}
	return e
}

func (e *Engines) GetEngine(llmName string) (Engine, error) {
	name := strings.ToLower(strings.TrimSpace(llmName))
	if name == "" {
		name = e.Default
	}
	if eng, ok := e.byName[name]; ok {
		return eng, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, llmName)
}

// Names lists registered keys, aliases included.
func (e *Engines) Names() []string {
	out := make([]string, 0, len(e.byName))
	for k := range e.byName {
		out = append(out, k)
	}
	return out
}
