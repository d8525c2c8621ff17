package sim

import "time"

// Transport is the boundary contract spec.md §6 assumes: a typed-message
// bus with per-peer reliable and unreliable channels, owning framing,
// retransmission, and version checking. The Tick Loop only ever drains
// ingress and hands egress messages back across the boundary; it never
// touches sockets directly.
//
// Grounded on internal/net/ws/handler.go's read-loop/write idiom,
// generalized from one goroutine-per-connection calling back into a Hub
// to a pull-based Drain the tick loop thread calls at the top of every
// iteration, per spec.md §5's handoff requirement ("message reception
// must hand off via a thread-safe queue drained by T0").
type Transport interface {
	// Drain blocks for up to budget waiting for ingress, returning
	// whatever arrived (possibly nothing). This is the tick loop's sole
	// blocking wait and its pacing mechanism.
	Drain(budget time.Duration) []Ingress

	// SendReliable delivers msg to one peer on the reliable channel.
	SendReliable(peer PeerID, msg Egress)
	// SendUnreliable delivers msg to one peer on the unreliable channel.
	SendUnreliable(peer PeerID, msg Egress)
	// BroadcastReliable delivers msg to every connected peer, reliably.
	BroadcastReliable(msg Egress)
	// BroadcastUnreliable delivers msg to every connected peer, unreliably.
	BroadcastUnreliable(msg Egress)
}
