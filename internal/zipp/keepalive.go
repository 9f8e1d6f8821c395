package zipp

import (
	"context"
	"net"
	"strconv"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Prober checks whether a speaker is reachable outside the UDP protocol.
type Prober interface {
	Probe(ctx context.Context, host string) bool
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context, host string) bool

// Probe calls f.
func (f ProberFunc) Probe(ctx context.Context, host string) bool {
	return f(ctx, host)
}

// TCPProber reports a host reachable when a TCP connect to Port succeeds
// within Timeout. Zipp speakers run a web server on port 80.
type TCPProber struct {
	Port    int
	Timeout time.Duration
}

// Probe implements Prober.
func (p TCPProber) Probe(ctx context.Context, host string) bool {
	d := net.Dialer{Timeout: p.Timeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(p.Port)))
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// KeepAlive probes the speaker and resyncs the snapshot.
//
// An unreachable speaker has every field cleared and its state set to
// unknown. A reachable speaker outside playing/paused/stopped gets a
// lifecycle refresh first, so presets are cached before ids arrive, then an
// active refresh.
func (s *Session) KeepAlive(ctx context.Context) error {
	if s.closed.Load() {
		return newClosedError("keep-alive")
	}

	probeCtx, cancel := context.WithTimeout(ctx, s.cfg.ProbeTimeout)
	reachable := s.prober.Probe(probeCtx, s.host)
	cancel()

	if !reachable {
		s.log.Debug("Speaker unreachable, clearing state")
		s.reset()
		return nil
	}

	var err error
	if !s.State().Controlled() {
		err = s.RefreshLifecycle()
	}
	return multierr.Append(err, s.RefreshActive())
}

func (s *Session) keepAliveLoop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.cfg.KeepAliveInterval)
	defer ticker.Stop()

	for {
		if err := s.KeepAlive(ctx); err != nil && !IsClosedError(err) {
			s.log.Warn("Keep-alive failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
