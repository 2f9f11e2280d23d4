package chat

import (
	"context"
	"encoding/json"

	"github.com/spetersoncode/strand"
	"github.com/spetersoncode/strand/agui"
	"github.com/spetersoncode/strand/client"
	"github.com/spetersoncode/strand/session"
)

// Open rehydrates a persisted conversation and makes it current.
//
// The canonical snapshot envelope and the persisted display log are
// fetched concurrently; the two logs are not derivable from one another
// (the canonical log lacks custom-signal events, the display log lacks
// tool bookkeeping), so both must succeed. On any failure Open returns
// *strand.RehydrationError and leaves the previous session untouched -
// there is no partial replace. On success the old session is retired
// and a new session bound to threadID becomes current.
func (c *Controller) Open(ctx context.Context, threadID string) error {
	type snapshotResult struct {
		envelope string
		err      error
	}
	type displayResult struct {
		records []client.DisplayRecord
		err     error
	}

	snapCh := make(chan snapshotResult, 1)
	dispCh := make(chan displayResult, 1)

	go func() {
		envelope, err := c.backend.Snapshot(ctx, threadID)
		snapCh <- snapshotResult{envelope, err}
	}()
	go func() {
		records, err := c.backend.DisplayLog(ctx, threadID)
		dispCh <- displayResult{records, err}
	}()

	snap := <-snapCh
	disp := <-dispCh

	if snap.err != nil {
		return &strand.RehydrationError{ThreadID: threadID, Cause: snap.err}
	}
	if disp.err != nil {
		return &strand.RehydrationError{ThreadID: threadID, Cause: disp.err}
	}

	ev, err := agui.Decode(snap.envelope)
	if err != nil {
		return &strand.RehydrationError{ThreadID: threadID, Cause: err}
	}
	if ev.Type != agui.TypeSnapshot {
		got := string(ev.Type)
		if ev.RawType != "" {
			got = ev.RawType
		}
		return &strand.RehydrationError{ThreadID: threadID, Cause: &strand.UnexpectedEventShapeError{Got: got}}
	}

	items := ProjectRecords(disp.records)

	// Commit point: both fetches resolved and decoded, replace together.
	sess := session.New(threadID)
	sess.Store().ReplaceAll(ev.Messages)
	c.session = sess
	c.items = items
	c.state = StateIdle
	c.active = nil
	c.render()
	return nil
}

// ProjectRecords maps persisted display records to display items. Text
// roles become text items; event records with a recognized custom name
// become structured items. Everything else - tool messages, unrecognized
// event names, malformed payloads - is silently skipped. The skip is a
// deliberate filter, not an error.
func ProjectRecords(records []client.DisplayRecord) []strand.DisplayItem {
	items := make([]strand.DisplayItem, 0, len(records))
	for _, rec := range records {
		switch rec.Role {
		case agui.RoleUser, agui.RoleAssistant:
			var text string
			if err := json.Unmarshal(rec.Content, &text); err != nil {
				continue
			}
			role := strand.DisplayUser
			if rec.Role == agui.RoleAssistant {
				role = strand.DisplayAssistant
			}
			items = append(items, strand.DisplayItem{Role: role, Content: text})

		case "event":
			var payload struct {
				Name  string          `json:"name"`
				Value json.RawMessage `json:"value"`
			}
			if err := json.Unmarshal(rec.Content, &payload); err != nil {
				continue
			}
			if item, ok := projectCustom(payload.Name, payload.Value); ok {
				items = append(items, item)
			}
		}
	}
	return items
}

// projectCustom applies the shared custom-signal projection rule used
// by both the live path and rehydration. Only the plan event is
// recognized; its value must decode to ordered step strings.
func projectCustom(name string, value json.RawMessage) (strand.DisplayItem, bool) {
	if name != strand.PlanEventName {
		return strand.DisplayItem{}, false
	}
	steps, ok := strand.DecodePlanValue(value)
	if !ok {
		return strand.DisplayItem{}, false
	}
	return strand.DisplayItem{
		Role:  strand.DisplayEvent,
		Event: &strand.EventPayload{Name: name, Steps: steps},
	}, true
}
