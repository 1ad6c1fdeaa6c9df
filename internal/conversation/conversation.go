// Package conversation implements the chat turn controller: the transcript,
// the draft, and the pending flag that guards the single in-flight request to
// the guide service.
package conversation

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Greeting is the assistant message every conversation starts with.
const Greeting = "Salam ! Bienvenue dans la Ville Rouge. Je suis ton guide personnel pour Marrakech. " +
	"Une question sur la Medina, les prix ou la sécurité ?"

// FallbackReply replaces the assistant reply when the guide service fails.
const FallbackReply = "Désolé, je n'arrive pas à joindre le guide pour le moment. " +
	"Vérifie ta connexion et réessaie."

// Message is one transcript entry.
type Message struct {
	Role    Role
	Content string
}

// State is the controller's position in the turn state machine.
type State int

const (
	Idle State = iota
	AwaitingReply
)

func (s State) String() string {
	if s == AwaitingReply {
		return "awaiting_reply"
	}
	return "idle"
}

// Guide turns user text into assistant text.
type Guide interface {
	Reply(ctx context.Context, text string) (string, error)
}

// GuideFunc adapts a plain function to Guide.
type GuideFunc func(ctx context.Context, text string) (string, error)

// Reply calls f.
func (f GuideFunc) Reply(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// Outcome is the settled result of one guide call: either a reply or a
// failure, never both.
type Outcome struct {
	reply string
	err   error
}

// Succeeded returns the outcome of a call that produced text.
func Succeeded(text string) Outcome {
	return Outcome{reply: text}
}

// Failed returns the outcome of a call that failed with err.
func Failed(err error) Outcome {
	return Outcome{err: err}
}

// OK reports whether the call succeeded.
func (o Outcome) OK() bool { return o.err == nil }

// Reply returns the guide's text; empty on failure.
func (o Outcome) Reply() string { return o.reply }

// Err returns the failure cause; nil on success.
func (o Outcome) Err() error { return o.err }

// Request is a dispatched guide call that has not run yet. The controller
// hands it out on Submit; the owner runs it off the UI loop and feeds the
// outcome back through Resolve.
type Request struct {
	Text  string
	guide Guide
}

// Run calls the guide and converts the result into an Outcome.
func (r Request) Run(ctx context.Context) Outcome {
	reply, err := r.guide.Reply(ctx, r.Text)
	if err != nil {
		return Failed(err)
	}
	return Succeeded(reply)
}

// Controller owns the conversation state. It is not safe for concurrent use:
// the goroutine that owns the UI loop is the only writer.
type Controller struct {
	guide     Guide
	logger    *slog.Logger
	sessionID string

	messages []Message
	draft    string
	state    State
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for state transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) Option {
	return func(c *Controller) {
		c.sessionID = id
	}
}

// New creates a controller seeded with the greeting.
func New(guide Guide, opts ...Option) *Controller {
	c := &Controller{
		guide:     guide,
		logger:    slog.Default(),
		sessionID: uuid.NewString(),
		messages:  []Message{{Role: RoleAssistant, Content: Greeting}},
		state:     Idle,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("session_id", c.sessionID)
	return c
}

// Submit sends text as the next user turn. It is ignored when the text is
// blank or a reply is still pending; ok reports whether a request was
// dispatched. Non-blank text is recorded and sent as typed.
func (c *Controller) Submit(text string) (req Request, ok bool) {
	if strings.TrimSpace(text) == "" {
		return Request{}, false
	}
	if c.state == AwaitingReply {
		c.logger.Debug("submission ignored while awaiting reply")
		return Request{}, false
	}

	c.messages = append(c.messages, Message{Role: RoleUser, Content: text})
	c.draft = ""
	c.state = AwaitingReply

	c.logger.Info("turn submitted", "state", c.state.String(), "messages", len(c.messages))
	return Request{Text: text, guide: c.guide}, true
}

// SubmitDraft submits the current draft.
func (c *Controller) SubmitDraft() (Request, bool) {
	return c.Submit(c.draft)
}

// Resolve applies the outcome of the pending request. It is a no-op when
// nothing is pending.
func (c *Controller) Resolve(o Outcome) {
	if c.state != AwaitingReply {
		c.logger.Warn("outcome received while idle, ignoring")
		return
	}

	content := o.reply
	if o.err != nil {
		content = FallbackReply
		c.logger.Warn("guide call failed", "error", o.err)
	}

	c.messages = append(c.messages, Message{Role: RoleAssistant, Content: content})
	c.state = Idle

	c.logger.Info("turn resolved", "ok", o.OK(), "state", c.state.String(), "messages", len(c.messages))
}

// Ask runs a full turn synchronously: submit, call the guide, resolve. It
// returns the appended assistant message with the guide outcome behind it,
// and false if the submission was ignored.
func (c *Controller) Ask(ctx context.Context, text string) (Message, Outcome, bool) {
	req, ok := c.Submit(text)
	if !ok {
		return Message{}, Outcome{}, false
	}
	outcome := req.Run(ctx)
	c.Resolve(outcome)
	return c.messages[len(c.messages)-1], outcome, true
}

// UpdateDraft replaces the draft text.
func (c *Controller) UpdateDraft(text string) {
	c.draft = text
}

// Draft returns the current draft text.
func (c *Controller) Draft() string {
	return c.draft
}

// Pending reports whether a guide request is outstanding.
func (c *Controller) Pending() bool {
	return c.state == AwaitingReply
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Transcript returns a copy of the messages in display order.
func (c *Controller) Transcript() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of transcript entries.
func (c *Controller) Len() int {
	return len(c.messages)
}

// LastReply returns the most recent assistant message content.
func (c *Controller) LastReply() (string, bool) {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == RoleAssistant {
			return c.messages[i].Content, true
		}
	}
	return "", false
}

// SessionID returns the id used to correlate this conversation's logs.
func (c *Controller) SessionID() string {
	return c.sessionID
}
