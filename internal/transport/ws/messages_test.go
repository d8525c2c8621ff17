package ws

import (
	"testing"

	"ridgeworld/server/internal/geom"
	"ridgeworld/server/internal/object"
	"ridgeworld/server/internal/sim"
)

func TestToIngressBeginAttackParsesWireEnums(t *testing.T) {
	in := toIngress("alice", clientMessage{
		Type:       "beginAttack",
		AttackerID: 7,
		AttackKind: "melee",
	})
	req, ok := in.(sim.BeginAttackRequest)
	if !ok {
		t.Fatalf("expected a BeginAttackRequest, got %#v", in)
	}
	if req.AttackerID != object.ID(7) || req.AttackKind != object.AttackMelee {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestToIngressUnknownTypeIsDropped(t *testing.T) {
	if in := toIngress("alice", clientMessage{Type: "bogus"}); in != nil {
		t.Fatalf("expected an unrecognized frame type to be dropped, got %#v", in)
	}
}

func TestRecordDTORoundTrip(t *testing.T) {
	rec := object.Record{
		ID:              42,
		ParentID:        42,
		Kind:            object.KindCreature,
		Position:        geom.Vec3{X: 1, Y: 2, Z: 3},
		Velocity:        geom.Vec3{X: 0.1, Y: 0.2},
		CurrentMap:      "spawn",
		FacingDirection: geom.DirNorthEast,
		Faction:         object.FactionEvil,
		Speed:           0.1,
		Scale:           1,
		Collider:        object.Collider{Shape: object.ColliderCircle, Dimensions: geom.Vec2{X: 12}},
	}

	round := fromRecordDTO(toRecordDTO(rec))
	if round != rec {
		t.Fatalf("round trip mismatch: got %+v, want %+v", round, rec)
	}
}

func TestToWireBeginAttackResponse(t *testing.T) {
	wire := toWire(sim.BeginAttackResponse{AttackerID: 3, Allowed: true, AttackKind: object.AttackMelee, ChargeDurationSecs: 0.3})
	if wire.Type != "beginAttackResponse" || !wire.Allowed || wire.AttackKind != "melee" {
		t.Fatalf("unexpected wire message: %+v", wire)
	}
}

func TestToWireLeavesVersionForCallerToStamp(t *testing.T) {
	// toWire itself never sets Version; Server.send/broadcast stamp it with
	// protocolVersion right before writing the frame.
	wire := toWire(sim.PlayerConnected{ID: 1})
	if wire.Version != 0 {
		t.Fatalf("expected toWire to leave Version unset, got %d", wire.Version)
	}
}
