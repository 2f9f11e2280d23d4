package client

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/spetersoncode/strand"
)

// maxEventSize bounds a single SSE line. Snapshot events carry whole
// conversations, so the limit is generous.
const maxEventSize = 4 * 1024 * 1024

// stream reads SSE lines from body and forwards data lines on ch.
// Lines carrying only framing metadata (event names, comments, blank
// keep-alives) are skipped; the `data:` marker itself is left on the
// line for the decoder to strip. Every send races ctx so a consumer
// that stops draining the channel cannot strand the reader; closes ch
// and body when the stream or the context ends.
func (c *Client) stream(ctx context.Context, body io.ReadCloser, ch chan<- Envelope) {
	defer close(ch)
	defer body.Close()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventSize)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		select {
		case ch <- Envelope{Data: line}:
		case <-ctx.Done():
			return
		}
	}

	if err := scanner.Err(); err != nil {
		select {
		case ch <- Envelope{Err: &strand.NetworkError{Op: "POST /chat/ stream", Cause: err}}:
		case <-ctx.Done():
		}
	}
}
