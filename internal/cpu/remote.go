package cpu

import (
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"golang.org/x/sys/unix"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// RemoteClient is one connected remote debug console: a thin wrapper
// around a websocket connection with a buffered outbound queue, mirroring
// the player/hub split used by the display package's web transport.
type RemoteClient struct {
	conn *websocket.Conn
	send chan []byte

	mu         sync.Mutex
	avgLatency uint16 // smoothed microseconds, from TCP_INFO
}

// tcpInfo reads the kernel's TCP_INFO for conn, the same way the display
// transport estimates client latency: a low-overhead substitute for
// round-trip timestamping at the application layer.
func tcpInfo(conn *net.TCPConn) (*unix.TCPInfo, error) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return nil, err
	}
	var info *unix.TCPInfo
	ctrlErr := raw.Control(func(fd uintptr) {
		info, err = unix.GetsockoptTCPInfo(int(fd), unix.IPPROTO_TCP, unix.TCP_INFO)
	})
	if ctrlErr != nil {
		return nil, ctrlErr
	}
	if err != nil {
		return nil, err
	}
	return info, nil
}

// AvgLatencyMicros returns the exponentially smoothed round-trip estimate
// for this client, or 0 if no sample has landed yet.
func (rc *RemoteClient) AvgLatencyMicros() uint16 {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.avgLatency
}

// RemoteHub broadcasts verbose instruction lines to any number of
// connected remote debug clients. It never blocks the CPU's
// dispatch loop: a slow or dead client is dropped rather than awaited.
type RemoteHub struct {
	mu      sync.Mutex
	clients map[*RemoteClient]bool

	register   chan *RemoteClient
	unregister chan *RemoteClient
	broadcast  chan []byte
}

// NewRemoteHub constructs a hub and starts its dispatch goroutine.
func NewRemoteHub() *RemoteHub {
	h := &RemoteHub{
		clients:    make(map[*RemoteClient]bool),
		register:   make(chan *RemoteClient),
		unregister: make(chan *RemoteClient),
		broadcast:  make(chan []byte, 64),
	}
	go h.run()
	return h
}

func (h *RemoteHub) run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// client too slow; drop it rather than block the CPU.
					delete(h.clients, c)
					close(c.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues msg for every connected client. It never blocks: if the
// hub's own buffer is full the message is dropped.
func (h *RemoteHub) Broadcast(msg []byte) {
	select {
	case h.broadcast <- msg:
	default:
	}
}

// ServeHTTP upgrades the request to a websocket and registers a new
// client whose outbound queue is drained by a dedicated goroutine.
func (h *RemoteHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &RemoteClient{conn: conn, send: make(chan []byte, 256)}
	h.register <- c
	go h.writePump(c)
}

func (h *RemoteHub) writePump(c *RemoteClient) {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.unregister <- c
			return
		}
		if tcpConn, ok := c.conn.UnderlyingConn().(*net.TCPConn); ok {
			if info, err := tcpInfo(tcpConn); err == nil {
				c.mu.Lock()
				c.avgLatency = ((c.avgLatency * 9) + uint16(info.Rtt/1000)) / 10
				c.mu.Unlock()
			}
		}
	}
}

// ClientCount returns the number of currently connected remote clients.
func (h *RemoteHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Latencies returns the smoothed round-trip estimate, in microseconds, for
// every connected client. Used by the debug console's `remote` command.
func (h *RemoteHub) Latencies() []uint16 {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]uint16, 0, len(h.clients))
	for c := range h.clients {
		out = append(out, c.AvgLatencyMicros())
	}
	return out
}

// AttachRemote wires a CPU's verbose trace lines to a remote hub, one
// broadcast per logged instruction. Call at most once per CPU.
func (c *CPU) AttachRemote(h *RemoteHub) {
	c.remote = h
}
