// Package agui decodes AG-UI protocol envelopes and converts between
// AG-UI wire messages and strand canonical messages.
//
// The backend frames each event SSE-style, one `data: <json>` line per
// event. [Decode] strips the framing marker, parses the JSON payload
// with the AG-UI SDK, and returns a closed tagged variant. Tags the
// client does not act on decode to [TypeUnknown] rather than failing:
// only structurally invalid payloads are rejected.
//
//	ev, err := agui.Decode(`data: {"type":"TEXT_MESSAGE_CONTENT","messageId":"msg-1","delta":"hi"}`)
//	if err != nil {
//	    // *strand.MalformedEventError
//	}
//	switch ev.Type {
//	case agui.TypeTextDelta:
//	    fmt.Println(ev.Delta)
//	}
package agui
