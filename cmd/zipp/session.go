package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/muurk/zipp/internal/config"
	"github.com/muurk/zipp/internal/hub"
	"github.com/muurk/zipp/internal/logging"
	"github.com/muurk/zipp/internal/zipp"
)

// defaultReplyTimeout bounds how long read commands wait for the speaker
const defaultReplyTimeout = 3 * time.Second

var replyTimeout time.Duration

func init() {
	rootCmd.PersistentFlags().DurationVar(&replyTimeout, "timeout", defaultReplyTimeout, "How long to wait for the speaker to answer")
}

// errNoSpeaker is returned when no speaker was named and no default is set
var errNoSpeaker = errors.New("no speaker given: use --speaker, set " + speakerEnvVar + ", or set default_speaker in the config file")

// remote bundles what one command invocation needs to talk to a speaker.
type remote struct {
	registry *config.Registry
	hub      *hub.Hub
	session  *zipp.Session
}

// connect resolves the speaker reference, opens the hub and starts a session.
func connect(ctx context.Context) (*remote, error) {
	registry, err := config.LoadRegistry()
	if err != nil {
		return nil, err
	}

	host := registry.ResolveSpeaker(speakerRef)
	if host == "" {
		return nil, errNoSpeaker
	}

	prefs := registry.Preferences
	h, err := hub.New(prefs.HubConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sockets: %w", err)
	}

	s, err := zipp.New(ctx, prefs.SessionConfig(host), h)
	if err != nil {
		return nil, multierr.Append(err, h.Close())
	}

	// Point the speaker's notifications at us
	if ip, err := hub.LocalIPFor(s.Host()); err == nil {
		if err := s.RegisterListener(ip, h.NotifyPort()); err != nil {
			logging.Warn("Failed to register notification listener", zap.Error(err))
		}
	}

	return &remote{registry: registry, hub: h, session: s}, nil
}

// wait blocks until pred holds for the session snapshot or the reply
// timeout passes.
func (r *remote) wait(ctx context.Context, pred func(zipp.Snapshot) bool) (zipp.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, replyTimeout)
	defer cancel()
	snap, err := r.session.WaitFor(ctx, pred, 50*time.Millisecond)
	if err != nil {
		return snap, fmt.Errorf("speaker did not answer within %s: %w", replyTimeout, err)
	}
	return snap, nil
}

// Close remembers what the speaker told us about itself, then closes the
// session and the hub.
func (r *remote) Close() error {
	snap := r.session.Snapshot()
	if snap.Name != "" || snap.SerialNumber != "" {
		r.registry.UpdateSpeakerSeen(snap.Host, snap.Name, snap.SerialNumber)
		if err := r.registry.Save(); err != nil {
			logging.Warn("Failed to save config", zap.Error(err))
		}
	}
	return multierr.Combine(r.session.Close(), r.hub.Close())
}

// withRemote wraps a command body with connect and Close.
func withRemote(run func(ctx context.Context, r *remote, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()
		r, err := connect(ctx)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, r.Close())
		}()
		return run(ctx, r, args)
	}
}
