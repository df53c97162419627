package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"learn-proxy/api/internal/learn"
)

const (
	learnUsage    = "Usage: /learn <reading|math|science> [beginner|intermediate|advanced] <topic>"
	practiceUsage = "Usage: /practice <reading|math|science> [easy|medium|hard] [count] <topic>"
)

var helpText = strings.Join([]string{
	"I explain topics and make practice problems.",
	"",
	learnUsage,
	"  e.g. /learn math beginner fractions",
	practiceUsage,
	"  e.g. /practice science hard 3 photosynthesis",
	"/engine [name] shows or switches the AI engine",
}, "\n")

var errUsage = errors.New("usage")

// parseLearnArgs reads "<subject> [level] <topic...>".
func parseLearnArgs(s string) (learn.LearningRequest, error) {
	f := strings.Fields(s)
	if len(f) < 2 {
		return learn.LearningRequest{}, errUsage
	}
	req := learn.LearningRequest{Subject: learn.Subject(strings.ToLower(f[0]))}
	rest := f[1:]
	switch lv := learn.Level(strings.ToLower(rest[0])); lv {
	case learn.LevelBeginner, learn.LevelIntermediate, learn.LevelAdvanced:
		req.Level = lv
		rest = rest[1:]
	}
	req.Topic = strings.Join(rest, " ")
	if req.Topic == "" {
		return learn.LearningRequest{}, errUsage
	}
	return req, nil
}

// parsePracticeArgs reads "<subject> [difficulty] [count] <topic...>".
func parsePracticeArgs(s string) (learn.PracticeRequest, error) {
	f := strings.Fields(s)
	if len(f) < 2 {
		return learn.PracticeRequest{}, errUsage
	}
	req := learn.PracticeRequest{Subject: learn.Subject(strings.ToLower(f[0]))}
	rest := f[1:]
	switch d := learn.Difficulty(strings.ToLower(rest[0])); d {
	case learn.DifficultyEasy, learn.DifficultyMedium, learn.DifficultyHard:
		req.Difficulty = d
		rest = rest[1:]
	}
	if len(rest) > 0 {
		if n, err := strconv.Atoi(rest[0]); err == nil {
			req.Count = &n
			rest = rest[1:]
		}
	}
	req.Topic = strings.Join(rest, " ")
	if req.Topic == "" {
		return learn.PracticeRequest{}, errUsage
	}
	return req, nil
}

func formatExplanation(topic string, out learn.LearningResponse) string {
	var b strings.Builder
	b.WriteString("📘 " + strings.TrimSpace(topic) + "\n\n")
	b.WriteString(strings.TrimSpace(out.Explanation))
	writeList(&b, "Examples", out.Examples)
	writeList(&b, "Key points", out.KeyPoints)
	writeList(&b, "Further reading", out.FurtherReading)
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n\n" + title + ":")
	for _, it := range items {
		b.WriteString("\n• " + strings.TrimSpace(it))
	}
}

// formatProblems lists the questions; with answers it becomes the answer key.
func formatProblems(ps learn.PracticeResponse, withAnswers bool) string {
	var b strings.Builder
	if withAnswers {
		b.WriteString("✅ Answers: " + ps.Topic)
	} else {
		fmt.Fprintf(&b, "📝 %s (%s)", ps.Topic, ps.Difficulty)
	}
	for i, p := range ps.Problems {
		fmt.Fprintf(&b, "\n\n%d. %s", i+1, strings.TrimSpace(p.Question))
		if withAnswers {
			b.WriteString("\nAnswer: " + strings.TrimSpace(p.Answer))
			b.WriteString("\n" + strings.TrimSpace(p.Explanation))
			continue
		}
		for _, o := range p.Options {
			b.WriteString("\n   " + strings.TrimSpace(o))
		}
		if p.Hint != "" {
			b.WriteString("\n💡 " + strings.TrimSpace(p.Hint))
		}
	}
	return b.String()
}
