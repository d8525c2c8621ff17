package sim

import (
	"ridgeworld/server/internal/geom"
	"ridgeworld/server/internal/mapdata"
	"ridgeworld/server/internal/object"
	"ridgeworld/server/internal/telemetry"
)

// playerColliderRadius is a modest default footprint for a newly spawned
// player; spec.md leaves the exact figure unspecified.
const playerColliderRadius = mapdata.TileSize * 0.4

// playerSpeed is units-per-millisecond, matching Record.Speed's documented
// unit.
const playerSpeed = 0.12

// handleIngress dispatches one drained ingress message. Every handler runs
// on the tick loop thread (spec.md §4.7).
func (l *Loop) handleIngress(in Ingress) {
	switch msg := in.(type) {
	case Connect:
		l.handleConnect(msg)
	case Disconnect:
		l.handleDisconnect(msg)
	case ObjectStateUpdate:
		l.handleObjectStateUpdate(msg)
	case BeginAttackRequest:
		l.handleBeginAttackRequest(msg)
	case CancelAttack:
		l.handleCancelAttack(msg)
	case DebugGetQuadtreeRequest:
		l.handleDebugGetQuadtreeRequest(msg)
	case DebugGetObjectPathRequest:
		l.handleDebugGetObjectPathRequest(msg)
	default:
		l.logger.Warnf("dropping unrecognized ingress message")
	}
}

func (l *Loop) handleConnect(msg Connect) {
	id := l.ids.Next()
	spawn := randomSpawnPoint(l.rng, l.cfg.SpawnRect)

	rec := object.Record{
		ID:         id,
		ParentID:   id,
		Kind:       object.KindPlayer,
		Position:   geom.Vec3{X: spawn.X, Y: spawn.Y},
		CurrentMap: l.cfg.StartingMap,
		Faction:    object.FactionGood,
		Speed:      playerSpeed,
		Scale:      1,
		Collider:   object.Collider{Shape: object.ColliderCircle, Dimensions: geom.Vec2{X: playerColliderRadius}},
	}
	l.table.Put(rec)

	l.boundPeerID[id] = msg.Peer
	l.peerIDBound[msg.Peer] = id

	l.transport.SendReliable(msg.Peer, PlayerConnected{ID: id})
	l.transport.BroadcastReliable(ObjectCreated{Record: rec})
}

func (l *Loop) handleDisconnect(msg Disconnect) {
	id, ok := l.peerIDBound[msg.Peer]
	if !ok {
		return
	}
	delete(l.peerIDBound, msg.Peer)
	delete(l.boundPeerID, id)

	l.attacks.CancelAttacksFor(id)
	l.table.Delete(id)
	l.paths.Clear(id)
	l.links.Clear(id)

	l.transport.BroadcastReliable(PlayerDisconnected{ID: id})
}

func (l *Loop) handleObjectStateUpdate(msg ObjectStateUpdate) {
	bound, ok := l.peerIDBound[msg.Peer]
	if !ok || bound != msg.Record.ID {
		l.logger.Warnf("dropping ObjectStateUpdate authored for a foreign id",
			telemetry.F("object_id", msg.Record.ID), telemetry.F("peer", msg.Peer))
		return
	}
	l.table.Put(msg.Record)
}

func (l *Loop) handleBeginAttackRequest(msg BeginAttackRequest) {
	attacker, ok := l.table.Get(msg.AttackerID)
	if !ok {
		l.transport.SendReliable(msg.Peer, BeginAttackResponse{Peer: msg.Peer, AttackerID: msg.AttackerID, Allowed: false})
		return
	}
	result := l.attacks.BeginAttack(attacker, msg.AttackKind, msg.ProjectileKind)
	l.transport.SendReliable(msg.Peer, BeginAttackResponse{
		Peer:               msg.Peer,
		AttackerID:         result.AttackerID,
		Allowed:            result.Allowed,
		AttackKind:         result.AttackKind,
		ProjectileKind:     result.ProjectileKind,
		ChargeDurationSecs: result.ChargeDuration,
	})
}

func (l *Loop) handleCancelAttack(msg CancelAttack) {
	l.attacks.CancelAttack(msg.AttackerID)
}

func (l *Loop) handleDebugGetQuadtreeRequest(msg DebugGetQuadtreeRequest) {
	id, ok := l.peerIDBound[msg.Peer]
	if !ok {
		return
	}
	rec, ok := l.table.Get(id)
	if !ok {
		return
	}
	rects := l.repo.QuadtreeOf(rec.CurrentMap).DebugRects()
	l.transport.SendReliable(msg.Peer, DebugGetQuadtreeResponse{Peer: msg.Peer, Rects: rects})
}

func (l *Loop) handleDebugGetObjectPathRequest(msg DebugGetObjectPathRequest) {
	waypoints := l.paths.GetPath(msg.ObjectID)
	l.transport.SendUnreliable(msg.Peer, DebugGetObjectPathResponse{
		Peer:      msg.Peer,
		ObjectID:  msg.ObjectID,
		Waypoints: waypoints,
		TraceID:   l.paths.TraceID(msg.ObjectID),
	})
}
