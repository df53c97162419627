package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"learn-proxy/api/internal/learn"
	"learn-proxy/api/internal/llm"
	"learn-proxy/api/internal/util"
	"learn-proxy/api/internal/worksheet"
)

// maxMessage stays under Telegram's 4096-char limit.
const maxMessage = 3900

// Sender is the part of *tgbotapi.BotAPI the router uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Router struct {
	Bot        Sender
	Service    *learn.Service
	Engines    *llm.Engines
	Worksheets *worksheet.Generator
	Timeout    time.Duration

	chatEngine sync.Map // chatID -> engine name
	practice   sync.Map // chatID -> *practiceSession
	now        func() time.Time
}

func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(ctx, *upd.CallbackQuery)
		return
	}
	if upd.Message == nil || !upd.Message.IsCommand() {
		if upd.Message != nil {
			r.send(upd.Message.Chat.ID, helpText)
		}
		return
	}
	r.HandleCommand(ctx, upd.Message)
}

func (r *Router) HandleCommand(ctx context.Context, m *tgbotapi.Message) {
	cid := m.Chat.ID
	args := m.CommandArguments()
	switch m.Command() {
	case "start", "help":
		r.send(cid, helpText)
	case "learn":
		req, err := parseLearnArgs(args)
		if err != nil {
			r.send(cid, learnUsage)
			return
		}
		req.LLMName = r.engineFor(cid)
		r.learn(ctx, cid, req)
	case "practice":
		req, err := parsePracticeArgs(args)
		if err != nil {
			r.send(cid, practiceUsage)
			return
		}
		req.LLMName = r.engineFor(cid)
		r.runPractice(ctx, cid, req)
	case "engine":
		r.handleEngineCommand(cid, args)
	default:
		r.send(cid, "Unknown command. Try /help")
	}
}

func (r *Router) learn(ctx context.Context, cid int64, req learn.LearningRequest) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	r.typing(cid)
	out, err := r.Service.Explain(ctx, req)
	if err != nil {
		r.send(cid, userMessage(err, "Failed to generate explanation. Please try again.",
			"An error occurred while generating the explanation. Please try again later."))
		return
	}
	r.send(cid, formatExplanation(req.Topic, out))
}

func (r *Router) runPractice(ctx context.Context, cid int64, req learn.PracticeRequest) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	r.typing(cid)
	out, err := r.Service.Practice(ctx, req)
	if err != nil {
		r.send(cid, userMessage(err, "Failed to generate practice problems. Please try again.",
			"An error occurred while generating practice problems. Please try again later."))
		return
	}
	r.storeSession(cid, &practiceSession{Subject: req.Subject, Set: out})

	msg := tgbotapi.NewMessage(cid, util.Truncate(formatProblems(out, false), maxMessage))
	msg.ReplyMarkup = practiceKeyboard()
	r.sendMsg(msg)
}

func (r *Router) handleCallback(ctx context.Context, cq tgbotapi.CallbackQuery) {
	if _, err := r.Bot.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		log.Printf("telegram: answer callback: %v", err)
	}
	if cq.Message == nil {
		return
	}
	cid := cq.Message.Chat.ID
	sess, ok := r.session(cid)
	if !ok {
		r.send(cid, "That practice set has expired. Send /practice to get a new one.")
		return
	}

	switch cq.Data {
	case cbAnswers:
		r.send(cid, formatProblems(sess.Set, true))
	case cbWorksheet:
		var buf bytes.Buffer
		if err := r.Worksheets.Render(&buf, sess.Subject, sess.Set); err != nil {
			log.Printf("telegram: worksheet: %v", err)
			r.send(cid, "Could not build the worksheet. Please try again.")
			return
		}
		doc := tgbotapi.NewDocument(cid, tgbotapi.FileBytes{Name: worksheet.Filename(sess.Set.Topic), Bytes: buf.Bytes()})
		doc.Caption = worksheet.Title(sess.Subject, sess.Set.Topic)
		r.sendMsg(doc)
	}
}

// handleEngineCommand shows or switches the engine for this chat.
//
//	/engine
//	/engine gemini
func (r *Router) handleEngineCommand(cid int64, args string) {
	names := r.Engines.Names()
	slices.Sort(names)

	name := strings.ToLower(strings.TrimSpace(args))
	if name == "" {
		cur, err := r.Engines.GetEngine(r.engineFor(cid))
		if err != nil {
			r.send(cid, "No engine configured.")
			return
		}
		r.send(cid, fmt.Sprintf("Current engine: %s (%s)\nAvailable: %s", cur.Name(), cur.GetModel(), strings.Join(names, " | ")))
		return
	}
	eng, err := r.Engines.GetEngine(name)
	if err != nil {
		r.send(cid, "Unknown engine. Available: "+strings.Join(names, " | "))
		return
	}
	r.chatEngine.Store(cid, eng.Name())
	r.send(cid, fmt.Sprintf("✅ Engine: %s (%s)", eng.Name(), eng.GetModel()))
}

func (r *Router) engineFor(cid int64) string {
	if v, ok := r.chatEngine.Load(cid); ok {
		return v.(string)
	}
	return ""
}

func (r *Router) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

// storeSession saves sess for cid and drops sessions older than sessionTTL.
func (r *Router) storeSession(cid int64, sess *practiceSession) {
	now := r.clock()
	sess.At = now
	r.practice.Range(func(k, v any) bool {
		if now.Sub(v.(*practiceSession).At) > sessionTTL {
			r.practice.Delete(k)
		}
		return true
	})
	r.practice.Store(cid, sess)
}

func (r *Router) session(cid int64) (*practiceSession, bool) {
	v, ok := r.practice.Load(cid)
	if !ok {
		return nil, false
	}
	sess := v.(*practiceSession)
	if r.clock().Sub(sess.At) > sessionTTL {
		r.practice.Delete(cid)
		return nil, false
	}
	return sess, true
}

func (r *Router) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.Timeout)
}

func (r *Router) typing(cid int64) {
	_, _ = r.Bot.Request(tgbotapi.NewChatAction(cid, tgbotapi.ChatTyping))
}

func (r *Router) send(cid int64, text string) {
	r.sendMsg(tgbotapi.NewMessage(cid, util.Truncate(text, maxMessage)))
}

func (r *Router) sendMsg(c tgbotapi.Chattable) {
	if _, err := r.Bot.Send(c); err != nil {
		log.Printf("telegram: send: %v", err)
	}
}

func userMessage(err error, empty, generic string) string {
	var ve *learn.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, llm.ErrUnknownEngine):
		return "Unknown engine. Pick one with /engine"
	case errors.Is(err, learn.ErrEmptyGeneration):
		log.Printf("telegram: %v", err)
		return empty
	case errors.Is(err, learn.ErrMalformedResponse):
		log.Printf("telegram: %v", err)
		return "Failed to parse AI response. Please try again."
	default:
		log.Printf("telegram: %v", err)
		return generic
	}
}
