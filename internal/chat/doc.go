// Package chat drives the query/response lifecycle for one conversation.
//
// # State machine
//
// A send moves the pipeline from idle to sending: the user message and a
// "Thinking…" assistant placeholder are appended atomically, tagged with a
// freshly minted request id. The eventual response — answer, no_info, or
// any failure — replaces the placeholder by that id, exactly once, and the
// pipeline returns to idle. While sending, further submissions are
// rejected without minting an id or touching the transcript.
//
// The id-based match is deliberate: content-based matching would corrupt
// the transcript if the one-in-flight guard were ever relaxed.
package chat
