// Package session carries a two-player paddle match between peers on the same
// LAN with no central server. It owns the datagram transport, the pairing
// lifecycle, and the synchronization state machine that validates, orders and
// applies incoming state records.
//
// # Roles
//
// A host picks a display name, advertises it with masked pairing secrets over
// discovery, binds the gameplay socket and waits. A guest resolves the
// advertisement, unmasks the secrets, binds its own socket and starts sending;
// the guest's first valid packet moves the host into play and stops the
// advertisement.
//
// # Authority
//
// Neither peer owns the ball outright. Each side simulates the ball only while
// it travels toward its own paddle and mirrors the opponent's authoritative
// state the rest of the time, so exactly one side computes the ball's true
// position at any instant without leader election.
//
// # Concurrency
//
// One mutex serializes every mutation of session and simulation state. Socket
// reads run on their own goroutine and queue events onto a single-consumer
// channel drained by Tick under that lock; sends are fire-and-forget. A per
// socket generation counter keeps callbacks from a torn-down socket away from
// fresh session state.
package session
