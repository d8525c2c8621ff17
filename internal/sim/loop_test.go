package sim

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"ridgeworld/server/internal/geom"
	"ridgeworld/server/internal/mapdata"
	"ridgeworld/server/internal/object"
)

const testMap mapdata.MapName = "spawn"

type fakeTransport struct {
	mu      sync.Mutex
	inbox   []Ingress
	sent    []Egress
	bcast   []Egress
	unicast []Egress
}

func (f *fakeTransport) Drain(time.Duration) []Ingress {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.inbox
	f.inbox = nil
	return out
}

func (f *fakeTransport) enqueue(in Ingress) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inbox = append(f.inbox, in)
}

func (f *fakeTransport) SendReliable(_ PeerID, msg Egress) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unicast = append(f.unicast, msg)
}

func (f *fakeTransport) SendUnreliable(_ PeerID, msg Egress) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unicast = append(f.unicast, msg)
}

func (f *fakeTransport) BroadcastReliable(msg Egress) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bcast = append(f.bcast, msg)
}

func (f *fakeTransport) BroadcastUnreliable(msg Egress) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bcast = append(f.bcast, msg)
}

func newTestLoop(t *testing.T) (*Loop, *fakeTransport) {
	t.Helper()
	cols, rows := 40, 40
	nm, err := mapdata.NewNavmap(cols, rows, make([]mapdata.TileState, cols*rows))
	if err != nil {
		t.Fatalf("NewNavmap: %v", err)
	}
	repo := mapdata.NewRepository()
	dims := geom.Vec2{X: float64(cols) * mapdata.TileSize, Y: float64(rows) * mapdata.TileSize}
	repo.AddMap(mapdata.MapMeta{Name: testMap, Position: geom.Vec2{}, Dimensions: dims}, nm)

	transport := &fakeTransport{}
	cfg := Config{
		StartingMap:     testMap,
		SpawnRect:       geom.Rect{Center: dims.Scale(0.5), Extents: geom.Vec2{X: 10, Y: 10}},
		PathWorkerCount: 1,
		PathQueueDepth:  8,
	}
	loop := NewLoop(repo, transport, cfg, rand.New(rand.NewSource(1)), nil)
	t.Cleanup(loop.Stop)
	return loop, transport
}

func TestConnectCreatesPlayerAndAcksPeer(t *testing.T) {
	loop, transport := newTestLoop(t)
	transport.enqueue(Connect{Peer: "alice"})

	loop.handleIngress(transport.Drain(0)[0])

	if loop.table.Len() != 1 {
		t.Fatalf("expected one player record after connect, got %d", loop.table.Len())
	}
	id, ok := loop.peerIDBound["alice"]
	if !ok {
		t.Fatalf("expected alice to be bound to an object id")
	}
	if _, ok := loop.table.Get(id); !ok {
		t.Fatalf("expected the bound id to resolve to a live record")
	}
}

func TestDisconnectRemovesPlayerAndBroadcasts(t *testing.T) {
	loop, transport := newTestLoop(t)
	loop.handleConnect(Connect{Peer: "alice"})
	id := loop.peerIDBound["alice"]

	loop.handleDisconnect(Disconnect{Peer: "alice"})

	if _, ok := loop.table.Get(id); ok {
		t.Fatalf("expected disconnect to remove the player record")
	}
	if _, ok := loop.peerIDBound["alice"]; ok {
		t.Fatalf("expected disconnect to clear the peer binding")
	}

	foundDisconnect := false
	for _, msg := range transport.bcast {
		if pd, ok := msg.(PlayerDisconnected); ok && pd.ID == id {
			foundDisconnect = true
		}
	}
	if !foundDisconnect {
		t.Fatalf("expected a PlayerDisconnected broadcast")
	}
}

func TestObjectStateUpdateRejectsForeignAuthor(t *testing.T) {
	loop, _ := newTestLoop(t)
	loop.handleConnect(Connect{Peer: "alice"})
	aliceID := loop.peerIDBound["alice"]
	loop.handleConnect(Connect{Peer: "bob"})
	bobID := loop.peerIDBound["bob"]

	before, _ := loop.table.Get(bobID)
	loop.handleObjectStateUpdate(ObjectStateUpdate{Peer: "alice", Record: object.Record{ID: bobID, Position: geom.Vec3{X: 999, Y: 999}}})

	after, _ := loop.table.Get(bobID)
	if after.Position != before.Position {
		t.Fatalf("expected an update authored by the wrong peer to be dropped")
	}
	_ = aliceID
}

func TestTickBroadcastsStateForEveryObject(t *testing.T) {
	loop, transport := newTestLoop(t)
	loop.handleConnect(Connect{Peer: "alice"})

	loop.tick()

	found := false
	for _, msg := range transport.bcast {
		if _, ok := msg.(ObjectStateBroadcast); ok {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an ObjectStateBroadcast after a tick")
	}
}

func TestBeginAttackAndCancelRoundTrip(t *testing.T) {
	loop, transport := newTestLoop(t)
	loop.handleConnect(Connect{Peer: "alice"})
	id := loop.peerIDBound["alice"]

	loop.handleBeginAttackRequest(BeginAttackRequest{Peer: "alice", AttackerID: id, AttackKind: object.AttackMelee})
	if len(transport.unicast) == 0 {
		t.Fatalf("expected a BeginAttackResponse to be sent")
	}
	resp, ok := transport.unicast[len(transport.unicast)-1].(BeginAttackResponse)
	if !ok || !resp.Allowed {
		t.Fatalf("expected an allowed melee BeginAttackResponse, got %+v", resp)
	}

	loop.handleCancelAttack(CancelAttack{Peer: "alice", AttackerID: id})
	promoted, _ := loop.attacks.Tick(1000)
	if len(promoted) != 0 {
		t.Fatalf("expected the cancelled charge to never promote, got %v", promoted)
	}
}
