package learn

import (
	"fmt"
	"strings"
)

const (
	TutorTemperature    float32 = 0.5
	PracticeTemperature float32 = 0.7
)

const tutorSystemPrompt = `You are an educational tutor for the Dusoma Foundation. Your role is to give clear, accessible explanations of educational concepts so that learners of every background can understand and master new skills.

GUIDELINES:
1. Use simple, clear language anyone can follow
2. Break complex concepts into small, manageable parts
3. Use concrete examples from everyday life
4. Be encouraging and supportive
5. Adapt the explanation to the learner's level
6. Build understanding rather than memorization

For every topic provide:
1. A clear, step-by-step explanation
2. Practical examples that illustrate the concept
3. Key points to remember
4. Suggestions for further learning (optional)

Respond with a single JSON object of this shape:
{
  "explanation": "Clear, detailed explanation of the topic",
  "examples": ["example1", "example2", "example3"],
  "keyPoints": ["point1", "point2", "point3"],
  "furtherReading": ["suggestion1", "suggestion2"]
}`

const practiceSystemPrompt = `You are an educational tutor for the Dusoma Foundation. Your role is to write practice problems that help learners build and test their understanding of a subject.

GUIDELINES:
1. Write clear, well-structured problems
2. Give multiple choice options where they make sense
3. Explain every answer in detail
4. Add hints that guide without giving the answer away
5. Vary the problem types to test different aspects of understanding
6. Keep problems relevant and engaging

For each problem provide:
1. A clear question
2. Multiple choice options (where applicable)
3. The correct answer
4. A detailed explanation of why the answer is correct
5. A helpful hint (optional)

Respond with a single JSON object of this shape:
{
  "problems": [
    {
      "question": "The problem question",
      "options": ["A) option1", "B) option2", "C) option3", "D) option4"],
      "answer": "The correct answer",
      "explanation": "Why this is the correct answer",
      "hint": "A helpful hint"
    }
  ],
  "topic": "The topic covered",
  "difficulty": "The difficulty level"
}`

// LevelDescription picks the framing sentence for a tutor level. Only an exact
// "beginner" or "advanced" changes it.
func LevelDescription(l Level) string {
	switch l {
	case LevelBeginner:
		return "Explain as if to someone completely new to this topic."
	case LevelAdvanced:
		return "Provide a more in-depth explanation suitable for someone with prior knowledge."
	default:
		return "Provide a balanced explanation suitable for someone with basic knowledge."
	}
}

func TutorUserPrompt(r LearningRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n", r.Subject)
	fmt.Fprintf(&b, "Topic: %s\n", strings.TrimSpace(r.Topic))
	if q := strings.TrimSpace(r.Question); q != "" {
		fmt.Fprintf(&b, "Specific Question: %s\n", q)
	}
	fmt.Fprintf(&b, "Level: %s\n\n", r.EffectiveLevel())
	b.WriteString(LevelDescription(r.Level))
	b.WriteString("\n\nPlease explain this topic clearly and provide helpful examples.\n")
	return b.String()
}

func PracticeUserPrompt(r PracticeRequest) string {
	n := r.EffectiveCount()
	d := r.EffectiveDifficulty()
	return fmt.Sprintf(`Subject: %s
Topic: %s
Difficulty: %s
Number of problems: %d

Please generate %d practice problems for this topic at the %s difficulty level.
`, r.Subject, strings.TrimSpace(r.Topic), d, n, n, d)
}

func TutorTask(r LearningRequest) Task {
	return Task{
		Name:        "tutor",
		System:      tutorSystemPrompt,
		User:        TutorUserPrompt(r),
		Temperature: TutorTemperature,
		Schema:      learningSchema,
	}
}

func PracticeTask(r PracticeRequest) Task {
	return Task{
		Name:        "practice",
		System:      practiceSystemPrompt,
		User:        PracticeUserPrompt(r),
		Temperature: PracticeTemperature,
		Schema:      practiceSchema,
	}
}
