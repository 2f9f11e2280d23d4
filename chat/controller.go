package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/spetersoncode/strand"
	"github.com/spetersoncode/strand/agui"
	"github.com/spetersoncode/strand/client"
	"github.com/spetersoncode/strand/session"
	"github.com/spetersoncode/strand/transcript"
)

// State is the lifecycle state of the most recent run.
type State string

const (
	// StateIdle means no run has been submitted on the current session.
	StateIdle State = "idle"

	// StateSubmitted means a prompt was sent but no event has arrived.
	StateSubmitted State = "submitted"

	// StateStreaming means events are being consumed.
	StateStreaming State = "streaming"

	// StateFinished is terminal: the run completed.
	StateFinished State = "finished"

	// StateFailed is terminal: the run failed and an inline error marker
	// was rendered. The optimistic user message is not rolled back.
	StateFailed State = "failed"
)

// Backend is the slice of the HTTP client the controller consumes.
// *client.Client satisfies it.
type Backend interface {
	Chat(ctx context.Context, req client.ChatRequest) (<-chan client.Envelope, error)
	Conversations(ctx context.Context) ([]string, error)
	Snapshot(ctx context.Context, threadID string) (string, error)
	DisplayLog(ctx context.Context, threadID string) ([]client.DisplayRecord, error)
}

// Presenter receives projected transcript nodes and conversation lists.
// It is a pure sink: implementations must not call back into the
// controller from these methods.
type Presenter interface {
	Render(nodes []transcript.Node)
	ConversationsUpdated(ids []string)
}

// Controller owns the current agent session and drives live runs
// against it. It follows the single-threaded event-loop model and is
// not safe for concurrent use - callers must serialize access.
type Controller struct {
	backend   Backend
	presenter Presenter

	session *session.Session
	items   []strand.DisplayItem
	state   State
	active  *run
}

// run binds one request cycle to the session it was submitted on.
type run struct {
	session  *session.Session
	threadID string
	runID    string

	// itemIndex is the in-progress assistant display item, re-rendered
	// in place as deltas arrive.
	itemIndex int
	acc       string

	// began is set once the canonical assistant turn for this run has
	// been opened. A delta after the turn was wiped (e.g. by a snapshot)
	// is a contract violation, not a reason to fabricate a message.
	began bool
}

// NewController creates a controller bound to a fresh conversation
// thread.
func NewController(backend Backend, presenter Presenter) *Controller {
	return &Controller{
		backend:   backend,
		presenter: presenter,
		session:   session.New(strand.NewThreadID()),
		state:     StateIdle,
	}
}

// ThreadID returns the current conversation's thread identifier.
func (c *Controller) ThreadID() string {
	return c.session.ThreadID()
}

// State returns the lifecycle state of the most recent run.
func (c *Controller) State() State {
	return c.state
}

// Messages returns the current session's canonical log.
func (c *Controller) Messages() []strand.Message {
	return c.session.Store().Messages()
}

// Items returns the current display items in display order.
func (c *Controller) Items() []strand.DisplayItem {
	out := make([]strand.DisplayItem, len(c.items))
	copy(out, c.items)
	return out
}

// NewThread retires the current session and starts a fresh conversation
// with a client-generated thread identifier. Returns the new ID.
func (c *Controller) NewThread() string {
	c.session = session.New(strand.NewThreadID())
	c.items = nil
	c.state = StateIdle
	c.active = nil
	c.render()
	return c.session.ThreadID()
}

// Submit drives one request cycle: it appends the user's canonical
// message optimistically, renders a placeholder assistant item, streams
// the response, and applies each event's effects. Submit blocks until
// the run reaches a terminal state.
//
// Returns strand.ErrRunActive if a prior run is still unresolved; the
// UI must disable input during that window. Run failures do not return
// an error: they surface as StateFailed with an inline marker, and the
// user's message is preserved (at-least-sent semantics).
func (c *Controller) Submit(ctx context.Context, prompt string) error {
	if c.active != nil {
		return strand.ErrRunActive
	}

	c.session.Store().Append(strand.Message{
		ID:      strand.GenerateMessageID(),
		Role:    strand.RoleUser,
		Content: prompt,
	})
	c.items = append(c.items,
		strand.DisplayItem{Role: strand.DisplayUser, Content: prompt},
		strand.DisplayItem{Role: strand.DisplayAssistant},
	)

	r := &run{
		session:   c.session,
		threadID:  c.session.ThreadID(),
		runID:     strand.GenerateRunID(),
		itemIndex: len(c.items) - 1,
	}
	c.active = r
	c.state = StateSubmitted
	c.render()

	// Cancel releases the stream reader and the connection on every exit
	// path, including runs that end before the stream is fully drained.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := c.backend.Chat(ctx, client.ChatRequest{
		ThreadID: r.threadID,
		RunID:    r.runID,
		Messages: agui.FromMessages(c.session.Store().Messages()),
	})
	if err != nil {
		c.fail(ctx, r, err)
		return nil
	}

	for env := range stream {
		if env.Err != nil {
			c.fail(ctx, r, env.Err)
			return nil
		}
		ev, err := agui.Decode(env.Data)
		if err != nil {
			c.fail(ctx, r, err)
			return nil
		}
		done, err := c.dispatch(ctx, r, ev)
		if err != nil {
			c.fail(ctx, r, err)
			return nil
		}
		if done {
			return nil
		}
	}

	// Stream closed without a run-finished event.
	c.fail(ctx, r, &strand.NetworkError{Op: "POST /chat/ stream", Cause: errors.New("stream ended before run finished")})
	return nil
}

// dispatch applies one decoded event's effects for the given run.
// Events bound to a retired session are dropped without effect. Returns
// done=true when the run reached its terminal Finished state.
func (c *Controller) dispatch(ctx context.Context, r *run, ev agui.Event) (bool, error) {
	if c.stale(r) {
		return false, nil
	}
	if c.state == StateSubmitted {
		c.state = StateStreaming
	}

	store := c.session.Store()
	switch ev.Type {
	case agui.TypeSnapshot:
		store.ReplaceAll(ev.Messages)

	case agui.TypeTextStart:
		if err := store.BeginAssistant(ev.MessageID); err != nil {
			return false, err
		}
		r.began = true

	case agui.TypeTextDelta:
		if !r.began {
			// Streams distilled to bare deltas never send a text-start;
			// the first delta opens the turn.
			if err := store.BeginAssistant(ev.MessageID); err != nil {
				return false, err
			}
			r.began = true
		}
		if err := store.AppendDelta(ev.Delta); err != nil {
			return false, err
		}
		r.acc += ev.Delta
		c.items[r.itemIndex].Content = r.acc
		c.render()

	case agui.TypeTextEnd:
		store.FinishAssistant()

	case agui.TypeCustom:
		if item, ok := projectCustom(ev.Name, ev.Value); ok {
			c.items = append(c.items, item)
			c.render()
		}

	case agui.TypeRunError:
		return false, fmt.Errorf("agent run failed: %s", ev.ErrorMessage)

	case agui.TypeRunFinished:
		store.FinishAssistant()
		if r.acc == "" {
			// Snapshot-only and tool-only runs stream no text; drop the
			// placeholder instead of rendering a blank assistant line.
			c.items = append(c.items[:r.itemIndex], c.items[r.itemIndex+1:]...)
			c.render()
		}
		c.state = StateFinished
		c.active = nil
		c.refreshConversations(ctx)
		return true, nil

	case agui.TypeRunStarted, agui.TypeUnknown:
		// No state effect.
	}
	return false, nil
}

// fail moves the run to its terminal Failed state: the partially-built
// assistant item is overwritten with an error marker and the canonical
// log keeps the optimistic user message. A late failure from a retired
// session is dropped.
func (c *Controller) fail(ctx context.Context, r *run, err error) {
	if c.stale(r) {
		return
	}
	c.session.Store().FinishAssistant()
	c.items[r.itemIndex] = strand.DisplayItem{
		Role:    strand.DisplayAssistant,
		Content: "Error: " + err.Error(),
	}
	c.state = StateFailed
	c.active = nil
	c.render()
	c.refreshConversations(ctx)
}

// stale reports whether the run's session has been retired. Session
// identity, not thread ID, is compared: reopening the same conversation
// builds a new session the old run must not touch.
func (c *Controller) stale(r *run) bool {
	return c.session != r.session
}

// RefreshConversations fetches the conversation list and hands it to
// the presenter.
func (c *Controller) RefreshConversations(ctx context.Context) error {
	ids, err := c.backend.Conversations(ctx)
	if err != nil {
		return err
	}
	c.presenter.ConversationsUpdated(ids)
	return nil
}

// refreshConversations is the post-run refresh: attempted even after a
// failed run, with no retry on error.
func (c *Controller) refreshConversations(ctx context.Context) {
	_ = c.RefreshConversations(ctx)
}

func (c *Controller) render() {
	c.presenter.Render(transcript.Project(c.items))
}
