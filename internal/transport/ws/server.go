// Package ws adapts gorilla/websocket connections to the sim.Transport
// contract. Grounded on internal/net/ws/handler.go's upgrade-then-read-loop
// idiom, generalized from the teacher's single ack/reject/heartbeat/
// keyframe protocol to the spec's flatter message taxonomy, and from a
// hub-owned-per-connection-goroutine design to a Transport that hands
// every inbound frame to the tick loop thread via a bounded queue
// (spec.md's explicit transport-boundary Non-goal: this package owns
// framing and delivery only, never simulation state).
package ws

import (
	"encoding/json"
	nethttp "net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"ridgeworld/server/internal/sim"
	"ridgeworld/server/internal/telemetry"
)

// ingressQueueDepth bounds how many undrained frames a Server will buffer.
// A saturated queue drops the oldest entry and logs at Warn rather than
// blocking a read-loop goroutine, keeping T0's drain call the only
// blocking wait in the system per spec.md §5.
const ingressQueueDepth = 4096

// channelReliable and channelUnreliable are the one-byte channel tags
// prefixed to every outbound frame, multiplexing the spec's reliable and
// unreliable logical channels over the single TCP-backed connection a
// websocket actually provides.
const (
	channelReliable   byte = 0
	channelUnreliable byte = 1
)

// Server upgrades HTTP connections to websockets and implements
// sim.Transport over the resulting per-peer connections.
type Server struct {
	logger   telemetry.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	ingress []sim.Ingress
	wake    chan struct{}

	peersMu sync.RWMutex
	peers   map[sim.PeerID]*peerConn
}

type peerConn struct {
	id   sim.PeerID
	conn *websocket.Conn
	mu   sync.Mutex // guards concurrent writes from Send*/Broadcast*
}

func (p *peerConn) writeFrame(channel byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	frame := make([]byte, 1+len(data))
	frame[0] = channel
	copy(frame[1:], data)

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn.WriteMessage(websocket.BinaryMessage, frame)
}

// NewServer constructs a Server ready to have HandleUpgrade registered on
// an HTTP route.
func NewServer(logger telemetry.Logger) *Server {
	if logger == nil {
		logger = telemetry.Nop{}
	}
	return &Server{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *nethttp.Request) bool { return true },
		},
		wake:  make(chan struct{}, 1),
		peers: make(map[sim.PeerID]*peerConn),
	}
}

// HandleUpgrade upgrades one HTTP request to a websocket connection and
// runs its read loop until the connection closes. Register it on an HTTP
// route such as "/ws"; the peer id comes from the "id" query parameter,
// matching the teacher's convention.
func (s *Server) HandleUpgrade(w nethttp.ResponseWriter, r *nethttp.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		nethttp.Error(w, "missing id", nethttp.StatusBadRequest)
		return
	}
	peer := sim.PeerID(id)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnf("websocket upgrade failed")
		return
	}

	pc := &peerConn{id: peer, conn: conn}
	s.peersMu.Lock()
	s.peers[peer] = pc
	s.peersMu.Unlock()

	s.enqueue(sim.Connect{Peer: peer})
	s.readLoop(pc)
}

// enqueue appends to the ingress queue, dropping the oldest entry and
// logging at Warn when the queue is already at capacity.
func (s *Server) enqueue(in sim.Ingress) {
	s.mu.Lock()
	if len(s.ingress) >= ingressQueueDepth {
		s.ingress = s.ingress[1:]
		s.logger.Warnf("ingress queue full, dropping oldest message")
	}
	s.ingress = append(s.ingress, in)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Server) readLoop(pc *peerConn) {
	defer s.disconnect(pc.id)
	for {
		_, payload, err := pc.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logger.Warnf("discarding malformed websocket frame", telemetry.F("peer", pc.id))
			continue
		}
		if msg.Version != protocolVersion {
			s.logger.Warnf("discarding websocket frame with unexpected version",
				telemetry.F("got", msg.Version), telemetry.F("want", protocolVersion))
			continue
		}
		if in := toIngress(pc.id, msg); in != nil {
			s.enqueue(in)
		}
	}
}

func (s *Server) disconnect(peer sim.PeerID) {
	s.peersMu.Lock()
	pc, ok := s.peers[peer]
	if ok {
		delete(s.peers, peer)
	}
	s.peersMu.Unlock()
	if !ok {
		return
	}
	pc.conn.Close()
	s.enqueue(sim.Disconnect{Peer: peer})
}

// Drain implements sim.Transport: it returns every ingress message
// currently queued, waiting up to budget for at least one if the queue is
// empty. This mirrors the tick loop's single blocking wait per spec.md §5.
func (s *Server) Drain(budget time.Duration) []sim.Ingress {
	s.mu.Lock()
	if len(s.ingress) == 0 {
		s.mu.Unlock()
		select {
		case <-s.wake:
		case <-time.After(budget):
			return nil
		}
		s.mu.Lock()
	}
	out := s.ingress
	s.ingress = nil
	s.mu.Unlock()
	return out
}

// SendReliable and SendUnreliable write over the same websocket
// connection, tagged with the channel byte they logically belong to.
// TCP-backed websockets deliver every frame regardless of the tag; the
// tag exists so a future transport swap-in only needs to honor it, per
// spec.md's stance that the actual unreliable datagram channel is out of
// scope for this server.
func (s *Server) SendReliable(peer sim.PeerID, msg sim.Egress) {
	s.send(peer, channelReliable, msg)
}

func (s *Server) SendUnreliable(peer sim.PeerID, msg sim.Egress) {
	s.send(peer, channelUnreliable, msg)
}

func (s *Server) send(peer sim.PeerID, channel byte, msg sim.Egress) {
	s.peersMu.RLock()
	pc, ok := s.peers[peer]
	s.peersMu.RUnlock()
	if !ok {
		return
	}
	wire := toWire(msg)
	wire.Version = protocolVersion
	if err := pc.writeFrame(channel, wire); err != nil {
		s.logger.Warnf("dropping peer after write failure")
		s.disconnect(peer)
	}
}

func (s *Server) BroadcastReliable(msg sim.Egress) {
	s.broadcast(channelReliable, msg)
}

func (s *Server) BroadcastUnreliable(msg sim.Egress) {
	s.broadcast(channelUnreliable, msg)
}

func (s *Server) broadcast(channel byte, msg sim.Egress) {
	wire := toWire(msg)
	wire.Version = protocolVersion
	s.peersMu.RLock()
	peers := make([]*peerConn, 0, len(s.peers))
	for _, pc := range s.peers {
		peers = append(peers, pc)
	}
	s.peersMu.RUnlock()
	for _, pc := range peers {
		if err := pc.writeFrame(channel, wire); err != nil {
			s.logger.Warnf("dropping peer after broadcast write failure")
			s.disconnect(pc.id)
		}
	}
}
