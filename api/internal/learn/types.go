package learn

import "strings"

type Subject string

const (
	SubjectReading Subject = "reading"
	SubjectMath    Subject = "math"
	SubjectScience Subject = "science"
)

func (s Subject) Valid() bool {
	switch s {
	case SubjectReading, SubjectMath, SubjectScience:
		return true
	}
	return false
}

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

const (
	DefaultProblemCount = 5
	MaxProblemCount     = 10
)

const (
	msgSubject       = "Please select a subject (reading, math, or science)"
	msgTutorTopic    = "Please provide a topic to learn about"
	msgPracticeTopic = "Please provide a topic for practice problems"
)

// LearningRequest is the body of POST /api/tutor.
type LearningRequest struct {
	Subject  Subject `json:"subject"`
	Topic    string  `json:"topic"`
	Question string  `json:"question,omitempty"`
	Level    Level   `json:"level,omitempty"` // beginner | intermediate | advanced
	LLMName  string  `json:"llm_name,omitempty"`
}

// Validate checks topic first, then subject.
func (r LearningRequest) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return &ValidationError{Field: "topic", Message: msgTutorTopic}
	}
	if !r.Subject.Valid() {
		return &ValidationError{Field: "subject", Message: msgSubject}
	}
	return nil
}

// EffectiveLevel falls back to intermediate when no level was sent.
func (r LearningRequest) EffectiveLevel() Level {
	if strings.TrimSpace(string(r.Level)) == "" {
		return LevelIntermediate
	}
	return r.Level
}

type LearningResponse struct {
	Explanation    string   `json:"explanation"`
	Examples       []string `json:"examples"`
	KeyPoints      []string `json:"keyPoints"`
	FurtherReading []string `json:"furtherReading,omitzero"`
}

// PracticeRequest is the body of POST /api/practice.
type PracticeRequest struct {
	Subject    Subject    `json:"subject"`
	Topic      string     `json:"topic"`
	Difficulty Difficulty `json:"difficulty,omitempty"` // easy | medium | hard
	Count      *int       `json:"count,omitempty"`
	LLMName    string     `json:"llm_name,omitempty"`
}

func (r PracticeRequest) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return &ValidationError{Field: "topic", Message: msgPracticeTopic}
	}
	if !r.Subject.Valid() {
		return &ValidationError{Field: "subject", Message: msgSubject}
	}
	return nil
}

func (r PracticeRequest) EffectiveDifficulty() Difficulty {
	if strings.TrimSpace(string(r.Difficulty)) == "" {
		return DifficultyMedium
	}
	return r.Difficulty
}

// EffectiveCount resolves the number of problems to ask for: a missing or
// zero count means the default, anything above the max is capped and
// negative values are raised to 1.
func (r PracticeRequest) EffectiveCount() int {
	n := DefaultProblemCount
	if r.Count != nil && *r.Count != 0 {
		n = *r.Count
	}
	return max(1, min(n, MaxProblemCount))
}

type Problem struct {
	Question    string   `json:"question"`
	Options     []string `json:"options,omitzero"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
	Hint        string   `json:"hint,omitempty"`
}

type PracticeResponse struct {
	Problems   []Problem `json:"problems"`
	Topic      string    `json:"topic"`
	Difficulty string    `json:"difficulty"`
}
