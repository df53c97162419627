package telegram

import (
	"context"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/go-cmp/cmp"

	"learn-proxy/api/internal/learn"
	"learn-proxy/api/internal/llm"
	"learn-proxy/api/internal/worksheet"
)

type fakeBot struct {
	sent     []tgbotapi.Chattable
	requests int
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeBot) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeBot) lastText(t *testing.T) string {
	t.Helper()
	if len(f.sent) == 0 {
		t.Fatal("nothing sent")
	}
	m, ok := f.sent[len(f.sent)-1].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("last sent is %T", f.sent[len(f.sent)-1])
	}
	return m.Text
}

type namedEngine struct {
	name  string
	reply string
	calls int
}

func (e *namedEngine) Name() string     { return e.name }
func (e *namedEngine) GetModel() string { return e.name + "-model" }
func (e *namedEngine) Complete(context.Context, llm.Request) (string, error) {
	e.calls++
	return e.reply, nil
}

func command(chatID int64, text string) tgbotapi.Update {
	cmd, _, _ := strings.Cut(text, " ")
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}}
}

func newTestRouter(engs ...llm.Engine) (*Router, *fakeBot) {
	reg := llm.NewEngines(engs[0].Name())
	for _, e := range engs {
		reg.Register(e)
	}
	bot := &fakeBot{}
	return &Router{
		Bot:        bot,
		Service:    learn.NewService(reg, nil),
		Engines:    reg,
		Worksheets: worksheet.New(worksheet.DefaultConfig()),
	}, bot
}

func TestParseLearnArgs(t *testing.T) {
	got, err := parseLearnArgs("Math beginner  long division")
	if err != nil {
		t.Fatal(err)
	}
	want := learn.LearningRequest{Subject: learn.SubjectMath, Level: learn.LevelBeginner, Topic: "long division"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	got, err = parseLearnArgs("science cells")
	if err != nil || got.Level != "" || got.Topic != "cells" {
		t.Errorf("got %+v, %v", got, err)
	}

	for _, bad := range []string{"", "math", "math advanced"} {
		if _, err := parseLearnArgs(bad); err == nil {
			t.Errorf("parseLearnArgs(%q) should fail", bad)
		}
	}
}

func TestParsePracticeArgs(t *testing.T) {
	got, err := parsePracticeArgs("reading hard 3 main idea")
	if err != nil {
		t.Fatal(err)
	}
	if got.Subject != learn.SubjectReading || got.Difficulty != learn.DifficultyHard || got.Count == nil || *got.Count != 3 || got.Topic != "main idea" {
		t.Errorf("got %+v", got)
	}

	got, err = parsePracticeArgs("math 12 times tables")
	if err != nil || got.Difficulty != "" || *got.Count != 12 || got.Topic != "times tables" {
		t.Errorf("got %+v, %v", got, err)
	}
	if got.EffectiveCount() != learn.MaxProblemCount {
		t.Errorf("count should clamp, got %d", got.EffectiveCount())
	}

	if _, err := parsePracticeArgs("math easy 4"); err == nil {
		t.Error("missing topic should fail")
	}
}

func TestFormatProblems(t *testing.T) {
	ps := learn.PracticeResponse{Topic: "sums", Difficulty: "easy", Problems: []learn.Problem{
		{Question: "1+1?", Options: []string{"A) 2", "B) 3"}, Answer: "A) 2", Explanation: "One and one.", Hint: "Count."},
	}}
	q := formatProblems(ps, false)
	if strings.Contains(q, "One and one.") || !strings.Contains(q, "B) 3") || !strings.Contains(q, "Count.") {
		t.Errorf("questions view wrong:\n%s", q)
	}
	a := formatProblems(ps, true)
	if !strings.Contains(a, "Answer: A) 2") || !strings.Contains(a, "One and one.") {
		t.Errorf("answers view wrong:\n%s", a)
	}
}

func TestEngineSwitchIsPerChat(t *testing.T) {
	gpt := &namedEngine{name: "gpt", reply: `{"explanation":"e","examples":[],"keyPoints":[]}`}
	gem := &namedEngine{name: "gemini", reply: `{"explanation":"g","examples":["x"],"keyPoints":["k"]}`}
	r, bot := newTestRouter(gpt, gem)
	ctx := context.Background()

	r.HandleUpdate(ctx, command(1, "/engine gemini"))
	if got := bot.lastText(t); !strings.Contains(got, "gemini") {
		t.Errorf("switch reply = %q", got)
	}
	r.HandleUpdate(ctx, command(1, "/learn math fractions"))
	r.HandleUpdate(ctx, command(2, "/learn math fractions"))
	if gem.calls != 1 || gpt.calls != 1 {
		t.Errorf("calls gemini=%d gpt=%d", gem.calls, gpt.calls)
	}

	r.HandleUpdate(ctx, command(1, "/engine nope"))
	if got := bot.lastText(t); !strings.HasPrefix(got, "Unknown engine") {
		t.Errorf("unknown reply = %q", got)
	}
}

func TestLearnReportsValidation(t *testing.T) {
	r, bot := newTestRouter(&namedEngine{name: "gpt"})
	r.HandleUpdate(context.Background(), command(1, "/learn history rome"))
	if got := bot.lastText(t); got != "Please select a subject (reading, math, or science)" {
		t.Errorf("reply = %q", got)
	}
}

func TestPracticeButtons(t *testing.T) {
	eng := &namedEngine{name: "gpt", reply: `{"problems":[{"question":"2+2?","answer":"4","explanation":"Two pairs."}],"topic":"sums","difficulty":"easy"}`}
	r, bot := newTestRouter(eng)
	ctx := context.Background()

	r.HandleUpdate(ctx, command(7, "/practice math easy 1 sums"))
	m, ok := bot.sent[len(bot.sent)-1].(tgbotapi.MessageConfig)
	if !ok || m.ReplyMarkup == nil || strings.Contains(m.Text, "Two pairs.") {
		t.Fatalf("practice message = %+v", bot.sent[len(bot.sent)-1])
	}

	click := func(data string) {
		r.HandleUpdate(ctx, tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
			ID: "cb", Data: data, Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 7}},
		}})
	}
	click(cbAnswers)
	if got := bot.lastText(t); !strings.Contains(got, "Two pairs.") {
		t.Errorf("answers = %q", got)
	}
	click(cbWorksheet)
	doc, ok := bot.sent[len(bot.sent)-1].(tgbotapi.DocumentConfig)
	if !ok {
		t.Fatalf("expected document, got %T", bot.sent[len(bot.sent)-1])
	}
	fb, ok := doc.File.(tgbotapi.FileBytes)
	if !ok || fb.Name != "sums-worksheet.pdf" || !strings.HasPrefix(string(fb.Bytes), "%PDF-") {
		t.Errorf("worksheet file = %s", fb.Name)
	}
}

func TestPracticeSessionsExpire(t *testing.T) {
	eng := &namedEngine{name: "gpt", reply: `{"problems":[{"question":"q","answer":"a","explanation":"e"}],"topic":"t","difficulty":"easy"}`}
	r, bot := newTestRouter(eng)
	now := time.Unix(1_700_000_000, 0)
	r.now = func() time.Time { return now }
	ctx := context.Background()

	r.HandleUpdate(ctx, command(1, "/practice math t"))
	now = now.Add(sessionTTL + time.Minute)

	r.HandleUpdate(ctx, tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID: "cb", Data: cbAnswers, Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}},
	}})
	if got := bot.lastText(t); !strings.Contains(got, "expired") {
		t.Errorf("reply = %q", got)
	}
	if _, ok := r.practice.Load(int64(1)); ok {
		t.Error("expired session should be dropped on access")
	}

	r.HandleUpdate(ctx, command(2, "/practice math t"))
	now = now.Add(sessionTTL + time.Minute)
	r.HandleUpdate(ctx, command(3, "/practice math t"))
	if _, ok := r.practice.Load(int64(2)); ok {
		t.Error("stale session should be swept when a new one is stored")
	}
	if _, ok := r.practice.Load(int64(3)); !ok {
		t.Error("fresh session missing")
	}
}
