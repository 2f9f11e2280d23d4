// Package strand provides the core types for a client that keeps two
// parallel representations of an agent conversation in sync: the live
// AG-UI event stream emitted while the agent responds, and the durable
// conversation history persisted by the backend.
//
// The root package holds the canonical message model, the display item
// model, and the error taxonomy. The interesting behavior lives in the
// subpackages:
//
//   - [github.com/spetersoncode/strand/agui]: decodes framed protocol
//     envelopes into typed events and maps AG-UI wire messages to and
//     from canonical messages.
//   - [github.com/spetersoncode/strand/session]: the agent state store,
//     an ordered canonical log scoped to one conversation thread.
//   - [github.com/spetersoncode/strand/client]: the HTTP client for the
//     chat, rehydration, and display-log endpoints.
//   - [github.com/spetersoncode/strand/chat]: the streaming session
//     controller and the rehydration resolver. Both the live path and
//     the cold path converge on the same store and transcript contracts.
//   - [github.com/spetersoncode/strand/transcript]: a pure projection
//     from display items to renderable nodes.
//
// # Canonical log vs display log
//
// The canonical log carries tool-call bookkeeping but no custom-signal
// events; the persisted display log carries custom-signal events but no
// tool bookkeeping. Neither is derivable from the other at rehydration
// time, so both are fetched and committed together, atomically.
//
// # Basic usage
//
//	backend := client.New(client.Config{BaseURL: "http://localhost:8000"})
//	ctrl := chat.NewController(backend, presenter)
//
//	if err := ctrl.Open(ctx, "conv-1717171717000"); err != nil {
//	    log.Fatal(err)
//	}
//	if err := ctrl.Submit(ctx, "what is the secret plan?"); err != nil {
//	    log.Fatal(err)
//	}
package strand
