package ws

import (
	"ridgeworld/server/internal/geom"
	"ridgeworld/server/internal/mapdata"
	"ridgeworld/server/internal/object"
	"ridgeworld/server/internal/sim"
)

// protocolVersion is the wire version stamp spec.md §6 requires on every
// frame. Bump it whenever clientMessage/serverMessage's JSON shape changes
// in a way older clients couldn't parse.
const protocolVersion = 1

// clientMessage is the wire shape of one client->server frame, grounded on
// internal/net/ws/handler.go's single tagged clientMessage struct
// (Type selects which other fields are meaningful) rather than separate
// Go types per message — JSON framing favors one flat struct over a
// marshaled interface value.
type clientMessage struct {
	Type    string `json:"type"`
	Version int    `json:"version"`

	// "updateState"
	Record *recordDTO `json:"record,omitempty"`

	// "beginAttack"
	AttackerID     uint64 `json:"attackerId,omitempty"`
	AttackKind     string `json:"attackKind,omitempty"`
	ProjectileKind string `json:"projectileKind,omitempty"`

	// "cancelAttack"
	// reuses AttackerID above

	// "debugGetObjectPath"
	ObjectID uint64 `json:"objectId,omitempty"`
}

// serverMessage is the wire shape of one server->client frame.
type serverMessage struct {
	Type    string `json:"type"`
	Version int    `json:"version"`

	PlayerID   uint64      `json:"playerId,omitempty"`
	Record     *recordDTO  `json:"record,omitempty"`
	ObjectID   uint64      `json:"objectId,omitempty"`
	Allowed    bool        `json:"allowed,omitempty"`
	AttackKind string      `json:"attackKind,omitempty"`
	ChargeSecs float64     `json:"chargeSecs,omitempty"`
	Rects      []rectDTO   `json:"rects,omitempty"`
	Waypoints  []vec3DTO   `json:"waypoints,omitempty"`
	TraceID    string      `json:"traceId,omitempty"`
}

type recordDTO struct {
	ID              uint64  `json:"id"`
	ParentID        uint64  `json:"parentId"`
	Kind            uint8   `json:"kind"`
	AttackKind      uint8   `json:"attackKind"`
	ProjectileKind  uint8   `json:"projectileKind"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Z               float64 `json:"z"`
	VX              float64 `json:"vx"`
	VY              float64 `json:"vy"`
	VZ              float64 `json:"vz"`
	CurrentMap      string  `json:"currentMap"`
	FacingDirection uint8   `json:"facingDirection"`
	State           uint8   `json:"state"`
	Faction         uint8   `json:"faction"`
	Speed           float64 `json:"speed"`
	Scale           float64 `json:"scale"`
	ColliderShape   uint8   `json:"colliderShape"`
	ColliderX       float64 `json:"colliderX"`
	ColliderY       float64 `json:"colliderY"`
	ActionTimer     float64 `json:"actionTimer"`
}

type rectDTO struct {
	CX, CY, EX, EY float64
}

type vec3DTO struct {
	X, Y, Z float64
}

func toRecordDTO(r object.Record) recordDTO {
	return recordDTO{
		ID:              uint64(r.ID),
		ParentID:        uint64(r.ParentID),
		Kind:            uint8(r.Kind),
		AttackKind:      uint8(r.AttackKind),
		ProjectileKind:  uint8(r.ProjectileKind),
		X:               r.Position.X,
		Y:               r.Position.Y,
		Z:               r.Position.Z,
		VX:              r.Velocity.X,
		VY:              r.Velocity.Y,
		VZ:              r.Velocity.Z,
		CurrentMap:      string(r.CurrentMap),
		FacingDirection: uint8(r.FacingDirection),
		State:           uint8(r.State),
		Faction:         uint8(r.Faction),
		Speed:           r.Speed,
		Scale:           r.Scale,
		ColliderShape:   uint8(r.Collider.Shape),
		ColliderX:       r.Collider.Dimensions.X,
		ColliderY:       r.Collider.Dimensions.Y,
		ActionTimer:     r.ActionTimer,
	}
}

func fromRecordDTO(d recordDTO) object.Record {
	return object.Record{
		ID:             object.ID(d.ID),
		ParentID:       object.ID(d.ParentID),
		Kind:           object.Kind(d.Kind),
		AttackKind:     object.AttackKind(d.AttackKind),
		ProjectileKind: object.ProjectileKind(d.ProjectileKind),
		Position:       geom.Vec3{X: d.X, Y: d.Y, Z: d.Z},
		Velocity:       geom.Vec3{X: d.VX, Y: d.VY, Z: d.VZ},
		CurrentMap:      mapdata.MapName(d.CurrentMap),
		FacingDirection: geom.Direction8(d.FacingDirection),
		State:           object.State(d.State),
		Faction:         object.Faction(d.Faction),
		Speed:           d.Speed,
		Scale:           d.Scale,
		Collider: object.Collider{
			Shape:      object.ColliderShape(d.ColliderShape),
			Dimensions: geom.Vec2{X: d.ColliderX, Y: d.ColliderY},
		},
		ActionTimer: d.ActionTimer,
	}
}

func toRectDTOs(rects []geom.Rect) []rectDTO {
	out := make([]rectDTO, len(rects))
	for i, r := range rects {
		out[i] = rectDTO{CX: r.Center.X, CY: r.Center.Y, EX: r.Extents.X, EY: r.Extents.Y}
	}
	return out
}

func toVec3DTOs(waypoints []geom.Vec3) []vec3DTO {
	out := make([]vec3DTO, len(waypoints))
	for i, w := range waypoints {
		out[i] = vec3DTO{X: w.X, Y: w.Y, Z: w.Z}
	}
	return out
}

// attackKindFromWire and projectileKindFromWire parse the compact wire
// enums; unrecognized strings fall back to "none" and let the Attack
// Pipeline reject the request.
func attackKindFromWire(s string) object.AttackKind {
	switch s {
	case "melee":
		return object.AttackMelee
	case "projectile":
		return object.AttackProjectile
	default:
		return object.AttackNone
	}
}

func projectileKindFromWire(s string) object.ProjectileKind {
	switch s {
	case "arrow":
		return object.ProjectileArrow
	case "fireball":
		return object.ProjectileFireball
	default:
		return object.ProjectileNone
	}
}

func attackKindToWire(k object.AttackKind) string {
	switch k {
	case object.AttackMelee:
		return "melee"
	case object.AttackProjectile:
		return "projectile"
	default:
		return "none"
	}
}

// toIngress converts one decoded client frame into the sim package's
// tagged-union Ingress type, binding the sending peer.
func toIngress(peer sim.PeerID, msg clientMessage) sim.Ingress {
	switch msg.Type {
	case "updateState":
		if msg.Record == nil {
			return nil
		}
		return sim.ObjectStateUpdate{Peer: peer, Record: fromRecordDTO(*msg.Record)}
	case "beginAttack":
		return sim.BeginAttackRequest{
			Peer:           peer,
			AttackerID:     object.ID(msg.AttackerID),
			AttackKind:     attackKindFromWire(msg.AttackKind),
			ProjectileKind: projectileKindFromWire(msg.ProjectileKind),
		}
	case "cancelAttack":
		return sim.CancelAttack{Peer: peer, AttackerID: object.ID(msg.AttackerID)}
	case "debugGetQuadtree":
		return sim.DebugGetQuadtreeRequest{Peer: peer}
	case "debugGetObjectPath":
		return sim.DebugGetObjectPathRequest{Peer: peer, ObjectID: object.ID(msg.ObjectID)}
	default:
		return nil
	}
}

// toWire converts one outbound Egress value into its wire frame.
func toWire(msg sim.Egress) serverMessage {
	switch e := msg.(type) {
	case sim.PlayerConnected:
		return serverMessage{Type: "playerConnected", PlayerID: uint64(e.ID)}
	case sim.PlayerDisconnected:
		return serverMessage{Type: "playerDisconnected", PlayerID: uint64(e.ID)}
	case sim.ObjectCreated:
		dto := toRecordDTO(e.Record)
		return serverMessage{Type: "objectCreated", Record: &dto}
	case sim.ObjectDestroyed:
		return serverMessage{Type: "objectDestroyed", ObjectID: uint64(e.ID)}
	case sim.ObjectStateBroadcast:
		dto := toRecordDTO(e.Record)
		return serverMessage{Type: "objectState", Record: &dto}
	case sim.BeginAttackResponse:
		return serverMessage{
			Type:       "beginAttackResponse",
			ObjectID:   uint64(e.AttackerID),
			Allowed:    e.Allowed,
			AttackKind: attackKindToWire(e.AttackKind),
			ChargeSecs: e.ChargeDurationSecs,
		}
	case sim.DebugGetQuadtreeResponse:
		return serverMessage{Type: "debugQuadtree", Rects: toRectDTOs(e.Rects)}
	case sim.DebugGetObjectPathResponse:
		return serverMessage{Type: "debugObjectPath", ObjectID: uint64(e.ObjectID), Waypoints: toVec3DTOs(e.Waypoints), TraceID: e.TraceID}
	default:
		return serverMessage{Type: "unknown"}
	}
}
