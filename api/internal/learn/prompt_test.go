package learn

import (
	"strings"
	"testing"
)

func TestLevelDescription(t *testing.T) {
	balanced := "Provide a balanced explanation suitable for someone with basic knowledge."
	tests := []struct {
		level Level
		want  string
	}{
		{LevelBeginner, "Explain as if to someone completely new to this topic."},
		{LevelAdvanced, "Provide a more in-depth explanation suitable for someone with prior knowledge."},
		{LevelIntermediate, balanced},
		{"", balanced},
		{"Beginner", balanced},
		{"expert", balanced},
	}
	for _, tt := range tests {
		if got := LevelDescription(tt.level); got != tt.want {
			t.Errorf("LevelDescription(%q) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestTutorUserPrompt(t *testing.T) {
	p := TutorUserPrompt(LearningRequest{
		Subject:  SubjectMath,
		Topic:    "  fractions ",
		Question: "why flip the second fraction?",
		Level:    LevelBeginner,
	})
	for _, want := range []string{
		"Subject: math\n",
		"Topic: fractions\n",
		"Specific Question: why flip the second fraction?\n",
		"Level: beginner\n",
		"Explain as if to someone completely new to this topic.",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q:\n%s", want, p)
		}
	}

	p = TutorUserPrompt(LearningRequest{Subject: SubjectScience, Topic: "cells"})
	if strings.Contains(p, "Specific Question") {
		t.Errorf("prompt should omit empty question:\n%s", p)
	}
	if !strings.Contains(p, "Level: intermediate\n") {
		t.Errorf("prompt should default level:\n%s", p)
	}
	if !strings.Contains(p, "balanced explanation") {
		t.Errorf("prompt should use balanced framing:\n%s", p)
	}
}

func TestPracticeUserPrompt(t *testing.T) {
	p := PracticeUserPrompt(PracticeRequest{Subject: SubjectReading, Topic: "poems", Count: intPtr(50)})
	for _, want := range []string{
		"Subject: reading\n",
		"Topic: poems\n",
		"Difficulty: medium\n",
		"Number of problems: 10\n",
		"Please generate 10 practice problems for this topic at the medium difficulty level.",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q:\n%s", want, p)
		}
	}

	p = PracticeUserPrompt(PracticeRequest{Subject: SubjectMath, Topic: "primes", Difficulty: DifficultyHard})
	if !strings.Contains(p, "Number of problems: 5\n") || !strings.Contains(p, "at the hard difficulty level") {
		t.Errorf("unexpected prompt:\n%s", p)
	}
}

func TestTasks(t *testing.T) {
	tt := TutorTask(LearningRequest{Subject: SubjectMath, Topic: "x"})
	if tt.Temperature != 0.5 || tt.Schema == "" || !strings.Contains(tt.System, `"keyPoints"`) {
		t.Errorf("unexpected tutor task: %+v", tt)
	}
	pt := PracticeTask(PracticeRequest{Subject: SubjectMath, Topic: "x"})
	if pt.Temperature != 0.7 || pt.Schema == "" || !strings.Contains(pt.System, `"problems"`) {
		t.Errorf("unexpected practice task: %+v", pt)
	}
}
