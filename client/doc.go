// Package client talks to the conversation backend over HTTP.
//
// It covers the five endpoints the backend exposes: streaming chat
// submission (POST /chat/, SSE), the conversation list
// (GET /conversations/), the canonical snapshot envelope
// (POST /rehydrate/), the persisted display log
// (GET /display-messages/), and the raw canonical log for debugging
// (GET /messages/).
//
// Chat returns a channel of framed envelopes, one per SSE data line;
// decoding is the caller's concern (see the agui package). Transport
// failures are reported as *strand.NetworkError. The client never
// retries: all failures are terminal for the operation.
package client
