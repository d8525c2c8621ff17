// Package sim implements the Tick Loop (C8): the fixed-rate orchestrator
// that drains transport ingress, clears and rebuilds quadtrees, runs the
// per-object update pass, processes the Attack Pipeline's pending/TTL
// queues, and broadcasts a snapshot every tick.
//
// Grounded on internal/sim/loop.go's Run (ticker-driven fixed-timestep
// loop) and internal/sim/command.go's tagged-union command shape,
// generalized from the teacher's single ActorID+CommandType struct to the
// spec's richer client/server message taxonomy (connect/disconnect plus
// per-kind request/response pairs), expressed here as a small interface
// hierarchy rather than one struct with a field per variant, since unlike
// the teacher's uniform "command" concept, spec.md's ingress messages
// carry genuinely different payload shapes (peer lifecycle vs. per-object
// intents vs. debug queries).
package sim

import (
	"ridgeworld/server/internal/geom"
	"ridgeworld/server/internal/object"
)

// PeerID identifies one connected client, assigned by the transport at
// connect time (e.g. a query-string id or session token).
type PeerID string

// Ingress is the tagged-union interface every client->server and
// transport-lifecycle event implements.
type Ingress interface{ isIngress() }

// Connect signals a new peer joined the transport.
type Connect struct{ Peer PeerID }

// Disconnect signals a peer's connection ended.
type Disconnect struct{ Peer PeerID }

// ObjectStateUpdate is the unreliable, client-authored record overwrite.
// Per spec.md §6/§7, the authored Record.ID must match the sender's bound
// object id; a mismatch is dropped.
type ObjectStateUpdate struct {
	Peer   PeerID
	Record object.Record
}

// BeginAttackRequest asks the Attack Pipeline to begin a charge.
type BeginAttackRequest struct {
	Peer           PeerID
	AttackerID     object.ID
	AttackKind     object.AttackKind
	ProjectileKind object.ProjectileKind
}

// CancelAttack asks the Attack Pipeline to cancel a pending charge.
type CancelAttack struct {
	Peer       PeerID
	AttackerID object.ID
}

// DebugGetQuadtreeRequest asks for the requester's current map's quadtree
// debug rectangles.
type DebugGetQuadtreeRequest struct{ Peer PeerID }

// DebugGetObjectPathRequest asks for an object's current path waypoints.
type DebugGetObjectPathRequest struct {
	Peer     PeerID
	ObjectID object.ID
}

func (Connect) isIngress()                   {}
func (Disconnect) isIngress()                {}
func (ObjectStateUpdate) isIngress()         {}
func (BeginAttackRequest) isIngress()        {}
func (CancelAttack) isIngress()              {}
func (DebugGetQuadtreeRequest) isIngress()   {}
func (DebugGetObjectPathRequest) isIngress() {}

// Egress is the tagged-union interface every server->client message
// implements; Transport implementations type-switch on it to pick framing
// and channel (reliable vs. unreliable).
type Egress interface{ isEgress() }

// PlayerConnected is sent reliably to the newly connected peer only.
type PlayerConnected struct{ ID object.ID }

// PlayerDisconnected is broadcast reliably.
type PlayerDisconnected struct{ ID object.ID }

// ObjectCreated is broadcast reliably.
type ObjectCreated struct{ Record object.Record }

// ObjectDestroyed is broadcast reliably.
type ObjectDestroyed struct{ ID object.ID }

// ObjectStateBroadcast is broadcast unreliably, once per tick per object.
type ObjectStateBroadcast struct{ Record object.Record }

// BeginAttackResponse replies reliably to the requesting peer.
type BeginAttackResponse struct {
	Peer               PeerID
	AttackerID         object.ID
	Allowed            bool
	AttackKind         object.AttackKind
	ProjectileKind     object.ProjectileKind
	ChargeDurationSecs float64
}

// DebugGetQuadtreeResponse replies reliably to the requesting peer.
type DebugGetQuadtreeResponse struct {
	Peer  PeerID
	Rects []geom.Rect
}

// DebugGetObjectPathResponse replies unreliably to the requesting peer.
// TraceID carries the uuid of the search that produced Waypoints (empty if
// no search has completed for this object yet), so a slow or looping
// search stays traceable from the client all the way back to the path
// worker's log lines.
type DebugGetObjectPathResponse struct {
	Peer      PeerID
	ObjectID  object.ID
	Waypoints []geom.Vec3
	TraceID   string
}

func (PlayerConnected) isEgress()          {}
func (PlayerDisconnected) isEgress()       {}
func (ObjectCreated) isEgress()            {}
func (ObjectDestroyed) isEgress()          {}
func (ObjectStateBroadcast) isEgress()     {}
func (BeginAttackResponse) isEgress()      {}
func (DebugGetQuadtreeResponse) isEgress() {}
func (DebugGetObjectPathResponse) isEgress() {}
