package zipp

import "github.com/muurk/zipp/internal/protocol"

// PowerMode is the raw power mode reported by the speaker.
type PowerMode int

const (
	PowerUnknown PowerMode = iota
	PowerAwake
	PowerSleeping
)

// String returns a human-readable power mode
func (p PowerMode) String() string {
	switch p {
	case PowerAwake:
		return "awake"
	case PowerSleeping:
		return "sleeping"
	default:
		return "unknown"
	}
}

// PlayStatus is the raw play status reported by the speaker.
type PlayStatus int

const (
	PlayUnknown PlayStatus = iota
	Playing
	Paused
	Stopped
)

// String returns a human-readable play status
func (p PlayStatus) String() string {
	switch p {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// State is the overall session state derived from power mode and play status.
type State int

const (
	StateUnknown State = iota
	StateSleeping
	StateOn
	StatePlaying
	StatePaused
	StateStopped
)

// String returns a human-readable state
func (s State) String() string {
	switch s {
	case StateSleeping:
		return "sleeping"
	case StateOn:
		return "on"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// MarshalText encodes the power mode by name
func (p PowerMode) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// MarshalText encodes the play status by name
func (p PlayStatus) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Controlled reports whether the speaker is awake with a known play status.
func (s State) Controlled() bool {
	return s == StatePlaying || s == StatePaused || s == StateStopped
}

// DeriveState computes the overall state.
//
//	power      play        state
//	sleeping   any         sleeping
//	awake      playing     playing
//	awake      paused      paused
//	awake      stopped     stopped
//	awake      unknown     on
//	unknown    any         unknown
func DeriveState(power PowerMode, play PlayStatus) State {
	switch power {
	case PowerSleeping:
		return StateSleeping
	case PowerAwake:
		switch play {
		case Playing:
			return StatePlaying
		case Paused:
			return StatePaused
		case Stopped:
			return StateStopped
		default:
			return StateOn
		}
	default:
		return StateUnknown
	}
}

func parsePowerMode(text string) (PowerMode, bool) {
	switch text {
	case protocol.PowerModeAwake:
		return PowerAwake, true
	case protocol.PowerModeSleeping:
		return PowerSleeping, true
	default:
		return PowerUnknown, false
	}
}

func parsePlayStatus(text string) (PlayStatus, bool) {
	switch text {
	case protocol.PlayStatusPlaying:
		return Playing, true
	case protocol.PlayStatusStopped:
		return Stopped, true
	case protocol.PlayStatusPaused:
		return Paused, true
	default:
		return PlayUnknown, false
	}
}
