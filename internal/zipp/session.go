package zipp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muurk/zipp/internal/hub"
	"github.com/muurk/zipp/internal/logging"
	"github.com/muurk/zipp/internal/protocol"
)

// Session defaults
const (
	DefaultKeepAliveInterval = 45 * time.Second
	DefaultProbeTimeout      = 2 * time.Second
	DefaultProbePort         = 80
)

// Transport is the part of the hub a session needs.
type Transport interface {
	Register(r hub.Receiver)
	Unregister(r hub.Receiver)
	Send(host string, packet []byte) error
}

// Config configures a Session.
type Config struct {
	Host              string        // IP address or hostname
	KeepAliveInterval time.Duration // Period of the liveness probe and resync
	ProbeTimeout      time.Duration
	ProbePort         int
	Prober            Prober // Defaults to a TCPProber on ProbePort
	LogUnknown        bool   // Log opcodes missing from the command table
}

// DefaultConfig returns the session defaults for host.
func DefaultConfig(host string) Config {
	return Config{
		Host:              host,
		KeepAliveInterval: DefaultKeepAliveInterval,
		ProbeTimeout:      DefaultProbeTimeout,
		ProbePort:         DefaultProbePort,
	}
}

// Session tracks one speaker. Commands are send-and-forget; replies and
// notifications arrive through Ingest and show up in Snapshot.
type Session struct {
	id        string
	host      string
	cfg       Config
	prober    Prober
	transport Transport
	log       *zap.Logger

	snap    atomic.Pointer[Snapshot]
	writeMu sync.Mutex

	cancel context.CancelFunc
	done   chan struct{}
	closed atomic.Bool
}

// New resolves cfg.Host, registers with transport, sends the wake trigger
// and starts the keep-alive loop. The first keep-alive cycle runs
// immediately. The loop stops when ctx is cancelled or Close is called.
func New(ctx context.Context, cfg Config, transport Transport) (*Session, error) {
	if cfg.Host == "" {
		return nil, newValidationError("new session", "host is required")
	}

	ip, err := resolveHost(ctx, cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve speaker %q: %w", cfg.Host, err)
	}

	s := newSession(ip, cfg, transport)
	transport.Register(s)

	if err := transport.Send(s.host, protocol.TriggerPacket()); err != nil {
		s.log.Warn("Failed to send wake trigger", zap.Error(err))
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.keepAliveLoop(loopCtx)

	s.log.Info("Session started")
	return s, nil
}

// newSession builds a session without registering it or starting the loop.
func newSession(ip string, cfg Config, transport Transport) *Session {
	if cfg.KeepAliveInterval <= 0 {
		cfg.KeepAliveInterval = DefaultKeepAliveInterval
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = DefaultProbeTimeout
	}
	if cfg.ProbePort <= 0 {
		cfg.ProbePort = DefaultProbePort
	}

	prober := cfg.Prober
	if prober == nil {
		prober = TCPProber{Port: cfg.ProbePort, Timeout: cfg.ProbeTimeout}
	}

	id := uuid.New().String()
	s := &Session{
		id:        id,
		host:      ip,
		cfg:       cfg,
		prober:    prober,
		transport: transport,
		log:       logging.With(zap.String("session", id), zap.String("host", ip)),
	}
	s.snap.Store(&Snapshot{Host: ip})
	return s
}

func resolveHost(ctx context.Context, host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		return ip.String(), nil
	}

	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return "", err
	}
	for _, a := range addrs {
		if v4 := a.IP.To4(); v4 != nil {
			return v4.String(), nil
		}
	}
	return "", errors.New("no IPv4 address")
}

// ID returns the session's unique id, used to correlate log lines.
func (s *Session) ID() string {
	return s.id
}

// Host returns the speaker's resolved IP address.
func (s *Session) Host() string {
	return s.host
}

// Snapshot returns the current view of the speaker.
func (s *Session) Snapshot() Snapshot {
	return *s.snap.Load()
}

// State returns the derived overall state.
func (s *Session) State() State {
	return s.snap.Load().State
}

// VoicingOptions returns the voicings the speaker reported, or the built-in
// presets before it has answered. Only the reported list is used to
// translate or set voicings.
func (s *Session) VoicingOptions() []protocol.Preset {
	if v := s.snap.Load().Voicings; v != nil {
		return v
	}
	return protocol.VoicingPresets
}

// update publishes a modified copy of the current snapshot. Updates after
// Close are discarded.
func (s *Session) update(edit func(*Snapshot)) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.closed.Load() {
		return
	}

	cur := s.snap.Load()
	next := *cur
	edit(&next)
	next.Host = s.host
	next.State = DeriveState(next.PowerMode, next.PlayStatus)
	next.UpdatedAt = time.Now()
	s.snap.Store(&next)

	if next.State != cur.State {
		s.log.Info("State changed",
			zap.Stringer("from", cur.State),
			zap.Stringer("to", next.State),
		)
	}
}

// reset clears everything but the host, leaving the state unknown.
func (s *Session) reset() {
	s.update(func(snap *Snapshot) {
		*snap = Snapshot{}
	})
}

// Close stops the keep-alive loop and unregisters from the transport.
// It is safe to call more than once.
func (s *Session) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
	s.transport.Unregister(s)

	s.writeMu.Lock()
	s.snap.Store(&Snapshot{Host: s.host, UpdatedAt: time.Now()})
	s.writeMu.Unlock()

	s.log.Info("Session closed")
	return nil
}

// WaitFor polls the snapshot until pred holds or ctx ends.
func (s *Session) WaitFor(ctx context.Context, pred func(Snapshot) bool, poll time.Duration) (Snapshot, error) {
	if poll <= 0 {
		poll = 100 * time.Millisecond
	}

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		snap := s.Snapshot()
		if pred(snap) {
			return snap, nil
		}
		select {
		case <-ctx.Done():
			return snap, fmt.Errorf("waiting for %s: %w", s.host, ctx.Err())
		case <-ticker.C:
		}
	}
}
