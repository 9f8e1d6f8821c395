// Package zipp tracks and controls a single Libratone Zipp speaker.
//
// A Session registers with a hub.Hub (or any Transport), keeps an immutable
// Snapshot of everything the speaker has reported, and exposes the control
// commands. Commands never wait for replies: the reply arrives later as a
// datagram, goes through Ingest and lands in the next Snapshot.
//
// # State
//
// The overall State is derived from two raw inputs, power mode and play
// status, every time either changes. See DeriveState.
//
// # Keep-alive
//
// Each session runs a keep-alive loop. Every cycle probes the speaker with
// a TCP connect to port 80. If the speaker does not answer, the snapshot is
// cleared to unknown. Otherwise the session re-queries its fields; the
// lifecycle fields (name, version, preset lists) are re-queried only when
// the speaker is not playing, paused or stopped.
//
// # Usage Example
//
//	h, err := hub.Default()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	s, err := zipp.New(ctx, zipp.DefaultConfig("192.168.1.20"), h)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	if err := s.SetVolume(42); err != nil {
//	    log.Fatal(err)
//	}
//
//	snap, err := s.WaitFor(ctx, func(s zipp.Snapshot) bool {
//	    return s.Volume == "42"
//	}, 100*time.Millisecond)
package zipp
