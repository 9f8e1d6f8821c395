package hub

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/zipp/internal/logging"
	"github.com/muurk/zipp/internal/protocol"
)

// Default ports
const (
	DefaultControlPort = 7777 // Speaker listens for commands
	DefaultResultPort  = 7778 // We listen for get replies
	DefaultNotifyPort  = 3333 // We listen for notifications
	DefaultAckPort     = 3334 // Speaker listens for notification acks

	readBufferSize = 4096

	minReadBackoff = 10 * time.Millisecond
	maxReadBackoff = time.Second
)

// Role identifies which local socket a datagram arrived on.
type Role int

const (
	RoleNotification Role = iota
	RoleResult
)

// String returns a short role name for logs
func (r Role) String() string {
	switch r {
	case RoleNotification:
		return "notify"
	case RoleResult:
		return "result"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Receiver is a per-speaker consumer of inbound datagrams.
// Host must return the speaker's IP address in canonical form.
type Receiver interface {
	Host() string
	Ingest(raw []byte, role Role)
}

// Config controls socket binding and the worker pool.
type Config struct {
	ListenAddr  string // Local IP to bind, empty for all interfaces
	NotifyPort  int    // 0 picks an ephemeral port
	ResultPort  int    // 0 picks an ephemeral port
	ControlPort int
	AckPort     int
	Workers     int
	QueueDepth  int
}

// DefaultConfig returns the production port layout.
func DefaultConfig() Config {
	return Config{
		NotifyPort:  DefaultNotifyPort,
		ResultPort:  DefaultResultPort,
		ControlPort: DefaultControlPort,
		AckPort:     DefaultAckPort,
		Workers:     4,
		QueueDepth:  256,
	}
}

// Stats are cumulative packet counters.
type Stats struct {
	Received uint64 // Datagrams read from either socket
	Dropped  uint64 // Datagrams dropped because the worker queue was full
	Acked    uint64 // Acks sent for notifications
}

type job struct {
	recv Receiver
	data []byte
	role Role
}

// Hub owns the shared UDP sockets and routes datagrams to receivers by
// source IP.
type Hub struct {
	cfg Config

	notifyConn *net.UDPConn
	resultConn *net.UDPConn

	outMu        sync.Mutex
	outConn      net.PacketConn
	openOutbound func() (net.PacketConn, error)

	mu        sync.RWMutex
	receivers map[string]Receiver

	jobs    chan job
	loops   errgroup.Group
	workers errgroup.Group

	closeOnce sync.Once
	closeErr  error
	closed    atomic.Bool
	stop      chan struct{}

	received atomic.Uint64
	dropped  atomic.Uint64
	acked    atomic.Uint64
}

// New binds the notification, result and outbound sockets and starts the
// receive loops and worker pool. Bind failures are returned to the caller.
func New(cfg Config) (*Hub, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = 1
	}

	var listenIP net.IP
	if cfg.ListenAddr != "" {
		listenIP = net.ParseIP(cfg.ListenAddr)
		if listenIP == nil {
			return nil, fmt.Errorf("invalid listen address: %q", cfg.ListenAddr)
		}
	}

	h := &Hub{
		cfg:       cfg,
		receivers: make(map[string]Receiver),
		jobs:      make(chan job, cfg.QueueDepth),
		stop:      make(chan struct{}),
		openOutbound: func() (net.PacketConn, error) {
			return net.ListenUDP("udp4", &net.UDPAddr{IP: listenIP})
		},
	}

	var err error
	h.notifyConn, err = net.ListenUDP("udp4", &net.UDPAddr{IP: listenIP, Port: cfg.NotifyPort})
	if err != nil {
		return nil, fmt.Errorf("failed to bind notification port %d: %w", cfg.NotifyPort, err)
	}

	h.resultConn, err = net.ListenUDP("udp4", &net.UDPAddr{IP: listenIP, Port: cfg.ResultPort})
	if err != nil {
		_ = h.notifyConn.Close()
		return nil, fmt.Errorf("failed to bind result port %d: %w", cfg.ResultPort, err)
	}

	h.outConn, err = h.openOutbound()
	if err != nil {
		_ = h.notifyConn.Close()
		_ = h.resultConn.Close()
		return nil, fmt.Errorf("failed to open outbound socket: %w", err)
	}

	for i := 0; i < cfg.Workers; i++ {
		h.workers.Go(h.work)
	}
	h.loops.Go(func() error { return h.receiveLoop(h.notifyConn, RoleNotification) })
	h.loops.Go(func() error { return h.receiveLoop(h.resultConn, RoleResult) })

	logging.Info("Socket hub started",
		zap.Stringer("notify", h.notifyConn.LocalAddr()),
		zap.Stringer("result", h.resultConn.LocalAddr()),
		zap.Int("workers", cfg.Workers),
	)

	return h, nil
}

var (
	defaultOnce sync.Once
	defaultHub  *Hub
	defaultErr  error
)

// Default returns the process-wide hub on the standard ports, creating it
// on first use.
func Default() (*Hub, error) {
	defaultOnce.Do(func() {
		defaultHub, defaultErr = New(DefaultConfig())
	})
	return defaultHub, defaultErr
}

// Register routes datagrams from r.Host() to r, replacing any receiver
// already registered for that host.
func (h *Hub) Register(r Receiver) {
	key := canonicalHost(r.Host())
	h.mu.Lock()
	h.receivers[key] = r
	h.mu.Unlock()
	logging.Debug("Receiver registered", zap.String("host", key))
}

// Unregister removes r. A different receiver registered for the same host
// is left in place.
func (h *Hub) Unregister(r Receiver) {
	key := canonicalHost(r.Host())
	h.mu.Lock()
	if cur, ok := h.receivers[key]; ok && cur == r {
		delete(h.receivers, key)
	}
	h.mu.Unlock()
	logging.Debug("Receiver unregistered", zap.String("host", key))
}

func (h *Hub) lookup(host string) Receiver {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.receivers[host]
}

// Send writes packet to host's control port. On a write error the outbound
// socket is re-created and the write retried once.
func (h *Hub) Send(host string, packet []byte) error {
	addr, err := resolve(host, h.cfg.ControlPort)
	if err != nil {
		return &TransportError{Host: host, Op: "resolve", Err: err}
	}
	if err := h.writeTo(addr, packet); err != nil {
		return err
	}
	logging.LogPacket("sent", host, "control", packet)
	return nil
}

func (h *Hub) writeTo(addr *net.UDPAddr, packet []byte) error {
	h.outMu.Lock()
	defer h.outMu.Unlock()

	if h.closed.Load() {
		return ErrClosed
	}

	_, err := h.outConn.WriteTo(packet, addr)
	if err == nil {
		return nil
	}

	logging.Warn("Send failed, re-creating outbound socket",
		zap.Stringer("addr", addr),
		zap.Error(err),
	)

	_ = h.outConn.Close()
	conn, openErr := h.openOutbound()
	if openErr != nil {
		return &TransportError{Host: addr.IP.String(), Op: "reopen", Err: multierr.Append(err, openErr)}
	}
	h.outConn = conn

	if _, err := h.outConn.WriteTo(packet, addr); err != nil {
		return &TransportError{Host: addr.IP.String(), Op: "send", Err: err}
	}
	return nil
}

type udpReader interface {
	ReadFromUDP(b []byte) (int, *net.UDPAddr, error)
}

// receiveLoop reads until the socket is closed. Repeated read errors back
// off exponentially up to maxReadBackoff; a successful read resets it.
func (h *Hub) receiveLoop(conn udpReader, role Role) error {
	buf := make([]byte, readBufferSize)
	var backoff time.Duration
	for {
		n, src, err := conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) || h.closed.Load() {
				return nil
			}
			backoff = nextReadBackoff(backoff)
			logging.Warn("UDP read failed",
				zap.Stringer("role", role),
				zap.Duration("retry_in", backoff),
				zap.Error(err),
			)
			select {
			case <-h.stop:
				return nil
			case <-time.After(backoff):
			}
			continue
		}
		backoff = 0
		h.dispatch(buf[:n], src.IP, role)
	}
}

func nextReadBackoff(prev time.Duration) time.Duration {
	if prev < minReadBackoff {
		return minReadBackoff
	}
	if next := prev * 2; next < maxReadBackoff {
		return next
	}
	return maxReadBackoff
}

// dispatch hands one datagram to its receiver's queue and, for
// notifications, acks the sender whether or not a receiver matched.
func (h *Hub) dispatch(raw []byte, src net.IP, role Role) {
	h.received.Add(1)
	host := src.String()
	logging.LogPacket("received", host, role.String(), raw)

	if recv := h.lookup(host); recv != nil {
		data := make([]byte, len(raw))
		copy(data, raw)
		select {
		case h.jobs <- job{recv: recv, data: data, role: role}:
		default:
			h.dropped.Add(1)
			logging.Warn("Worker queue full, dropping packet",
				zap.String("host", host),
				zap.Stringer("role", role),
			)
		}
	} else if role == RoleResult {
		logging.Debug("Result from unregistered host dropped", zap.String("host", host))
	}

	if role == RoleNotification {
		h.ack(src)
	}
}

func (h *Hub) ack(ip net.IP) {
	addr := &net.UDPAddr{IP: ip, Port: h.cfg.AckPort}
	if err := h.writeTo(addr, protocol.AckPacket()); err != nil {
		logging.Warn("Failed to ack notification", zap.Stringer("addr", addr), zap.Error(err))
		return
	}
	h.acked.Add(1)
}

func (h *Hub) work() error {
	for j := range h.jobs {
		h.deliver(j)
	}
	return nil
}

// deliver isolates receiver panics so one bad packet cannot stop a worker.
func (h *Hub) deliver(j job) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Receiver panicked",
				zap.String("host", j.recv.Host()),
				zap.Any("panic", r),
			)
		}
	}()
	j.recv.Ingest(j.data, j.role)
}

// Close stops the receive loops, drains queued packets and releases the
// sockets. It is safe to call more than once.
func (h *Hub) Close() error {
	h.closeOnce.Do(func() {
		h.closed.Store(true)
		close(h.stop)

		var err error
		err = multierr.Append(err, h.notifyConn.Close())
		err = multierr.Append(err, h.resultConn.Close())
		err = multierr.Append(err, h.loops.Wait())

		close(h.jobs)
		err = multierr.Append(err, h.workers.Wait())

		h.outMu.Lock()
		err = multierr.Append(err, h.outConn.Close())
		h.outMu.Unlock()

		h.closeErr = err
		logging.Info("Socket hub stopped")
	})
	return h.closeErr
}

// LocalAddr returns the bound address of a role's socket.
func (h *Hub) LocalAddr(role Role) net.Addr {
	if role == RoleResult {
		return h.resultConn.LocalAddr()
	}
	return h.notifyConn.LocalAddr()
}

// NotifyPort returns the port the hub listens for notifications on.
func (h *Hub) NotifyPort() int {
	return h.notifyConn.LocalAddr().(*net.UDPAddr).Port
}

// Stats returns a snapshot of the packet counters.
func (h *Hub) Stats() Stats {
	return Stats{
		Received: h.received.Load(),
		Dropped:  h.dropped.Load(),
		Acked:    h.acked.Load(),
	}
}

// LocalIPFor returns the local address the OS would use to reach host.
// No packet is sent.
func LocalIPFor(host string) (string, error) {
	conn, err := net.Dial("udp4", net.JoinHostPort(host, strconv.Itoa(DefaultControlPort)))
	if err != nil {
		return "", fmt.Errorf("failed to find route to %s: %w", host, err)
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}

func resolve(host string, port int) (*net.UDPAddr, error) {
	if ip := net.ParseIP(host); ip != nil {
		return &net.UDPAddr{IP: ip, Port: port}, nil
	}
	return net.ResolveUDPAddr("udp4", net.JoinHostPort(host, strconv.Itoa(port)))
}

func canonicalHost(host string) string {
	if ip := net.ParseIP(host); ip != nil {
		return ip.String()
	}
	return host
}
