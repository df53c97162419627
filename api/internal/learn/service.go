package learn

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"learn-proxy/api/internal/llm"
	"learn-proxy/api/internal/store"
)

// Recorder persists one audit row per provider call.
type Recorder interface {
	Insert(ctx context.Context, g store.Generation) error
}

type Service struct {
	engs *llm.Engines
	rec  Recorder
}

// NewService wires the engine registry; rec may be nil to disable auditing.
func NewService(engs *llm.Engines, rec Recorder) *Service {
	return &Service{engs: engs, rec: rec}
}

func (s *Service) Explain(ctx context.Context, req LearningRequest) (LearningResponse, error) {
	if err := req.Validate(); err != nil {
		return LearningResponse{}, err
	}
	eng, err := s.engs.GetEngine(req.LLMName)
	if err != nil {
		return LearningResponse{}, err
	}

	start := time.Now()
	out, err := Generate[LearningResponse](ctx, eng, TutorTask(req))
	s.record(ctx, store.KindTutor, eng, req.Subject, req.Topic, start, err)
	return out, err
}

func (s *Service) Practice(ctx context.Context, req PracticeRequest) (PracticeResponse, error) {
	if err := req.Validate(); err != nil {
		return PracticeResponse{}, err
	}
	eng, err := s.engs.GetEngine(req.LLMName)
	if err != nil {
		return PracticeResponse{}, err
	}

	start := time.Now()
	out, err := Generate[PracticeResponse](ctx, eng, PracticeTask(req))
	s.record(ctx, store.KindPractice, eng, req.Subject, req.Topic, start, err)
	if err != nil {
		return PracticeResponse{}, err
	}
	if strings.TrimSpace(out.Topic) == "" {
		out.Topic = strings.TrimSpace(req.Topic)
	}
	if strings.TrimSpace(out.Difficulty) == "" {
		out.Difficulty = string(req.EffectiveDifficulty())
	}
	return out, nil
}

func (s *Service) record(ctx context.Context, kind string, eng llm.Engine, subj Subject, topic string, start time.Time, genErr error) {
	if s.rec == nil {
		return
	}
	g := store.Generation{
		Kind:      kind,
		Engine:    eng.Name(),
		Model:     eng.GetModel(),
		Subject:   string(subj),
		Topic:     strings.TrimSpace(topic),
		Status:    statusOf(genErr),
		LatencyMS: time.Since(start).Milliseconds(),
	}
	if genErr != nil {
		g.Error = genErr.Error()
	}
	// The audit write outlives a cancelled request but not by much.
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.rec.Insert(wctx, g); err != nil {
		log.Printf("audit %s: %v", kind, err)
	}
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return store.StatusOK
	case errors.Is(err, ErrEmptyGeneration):
		return store.StatusEmpty
	case errors.Is(err, ErrMalformedResponse):
		return store.StatusMalformed
	default:
		return store.StatusError
	}
}
