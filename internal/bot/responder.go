// Package bot produces KruxBot replies by delegating to a text-generation backend.
package bot

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kruxfinance/support-chat/internal/domain"
)

// EscalationMarker is the sentinel a reply carries when the conversation must be
// handed to a human agent.
const EscalationMarker = "[end_conversation_and_escalate]"

const (
	// UnavailableReply is used when no backend is configured.
	UnavailableReply = "Sorry, the AI service is currently unavailable. An agent will be with you shortly. " + EscalationMarker
	// FailureReply is used when the backend call fails.
	FailureReply = "I'm sorry, I seem to be having some trouble right now. I'll connect you with a human agent to help. " + EscalationMarker
)

// Generator is a text-generation backend. The transcript holds only customer and
// bot messages, oldest first, and always ends with a customer message.
type Generator interface {
	Generate(ctx context.Context, systemPrompt string, transcript []domain.Message) (string, error)
}

// Reply is the responder's result with the marker already stripped.
type Reply struct {
	Text     string
	Escalate bool
	Fallback bool
}

// Responder applies the bot policy around a Generator.
type Responder struct {
	generator    Generator
	systemPrompt string
	timeout      time.Duration
	logger       *zap.Logger
}

// Options configures a Responder.
type Options struct {
	SystemPrompt string
	Timeout      time.Duration
	Logger       *zap.Logger
}

// NewResponder wraps generator. A nil generator means the service is not
// configured and every turn gets UnavailableReply.
func NewResponder(generator Generator, opts Options) *Responder {
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = SystemPrompt
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Responder{
		generator:    generator,
		systemPrompt: opts.SystemPrompt,
		timeout:      opts.Timeout,
		logger:       opts.Logger,
	}
}

// Transcript filters messages down to the customer/bot conversation.
func Transcript(messages []domain.Message) []domain.Message {
	out := make([]domain.Message, 0, len(messages))
	for _, m := range messages {
		if m.Sender == domain.SenderCustomer || m.Sender == domain.SenderBot {
			out = append(out, m)
		}
	}
	return out
}

// ShouldRespond reports whether the transcript is waiting on the bot.
func ShouldRespond(transcript []domain.Message) bool {
	if len(transcript) == 0 {
		return false
	}
	return transcript[len(transcript)-1].Sender == domain.SenderCustomer
}

// Respond produces the next bot reply for messages. ok is false when the
// conversation is not waiting on the bot, in which case the backend is not called,
// and when ctx is cancelled while the backend is working.
// Backend failures never surface as errors.
func (r *Responder) Respond(ctx context.Context, messages []domain.Message) (reply Reply, ok bool) {
	transcript := Transcript(messages)
	if !ShouldRespond(transcript) {
		return Reply{}, false
	}

	if r.generator == nil {
		r.logger.Warn("bot backend not configured; escalating")
		return ParseReply(UnavailableReply, true), true
	}

	callCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	text, err := r.generator.Generate(callCtx, r.systemPrompt, transcript)
	if ctx.Err() != nil {
		// The caller gave up on the turn; only the responder's own timeout counts
		// as a backend failure.
		r.logger.Info("bot turn cancelled", zap.Error(ctx.Err()))
		return Reply{}, false
	}
	if err != nil {
		r.logger.Error("error calling bot backend", zap.Error(err))
		return ParseReply(FailureReply, true), true
	}
	if strings.TrimSpace(text) == "" {
		r.logger.Warn("bot backend returned empty text; escalating")
		return ParseReply(FailureReply, true), true
	}
	return ParseReply(text, false), true
}

// ParseReply strips the escalation marker and reports whether it was present.
func ParseReply(raw string, fallback bool) Reply {
	reply := Reply{Text: strings.TrimSpace(raw), Fallback: fallback}
	if strings.Contains(raw, EscalationMarker) {
		reply.Escalate = true
		reply.Text = strings.TrimSpace(strings.ReplaceAll(raw, EscalationMarker, ""))
	}
	return reply
}
