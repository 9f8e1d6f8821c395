package zipp

import (
	"strings"
	"time"

	"github.com/muurk/zipp/internal/protocol"
)

// Snapshot is an immutable view of a speaker's known state. Empty strings
// and nil pointers or slices mean the value has not been reported.
//
// Sessions never modify a published Snapshot; every update stores a new one.
// Slices and pointers are replaced whole, so a shallow copy is safe to keep.
type Snapshot struct {
	Host string

	// Lifecycle fields
	Version      string
	SerialNumber string
	Name         string
	Color        string
	Voicings     []protocol.Preset
	Rooms        []protocol.Preset
	Channels     []protocol.PlayerInfo

	// Active fields
	PowerMode      PowerMode
	PlayStatus     PlayStatus
	State          State
	Volume         string
	BatteryLevel   string
	SignalStrength string
	MuteStatus     string
	ChargingStatus string
	Voicing        string // Name of the current voicing
	Room           string // Name of the current room setting
	Timer          *protocol.Timer
	Player         *protocol.PlayerInfo
	Group          *protocol.GroupInfo

	UpdatedAt time.Time
}

// VoicingName resolves a voicing id through the cached enumeration.
func (s *Snapshot) VoicingName(id string) (string, bool) {
	return presetName(s.Voicings, id)
}

// RoomName resolves a room id through the cached enumeration.
func (s *Snapshot) RoomName(id string) (string, bool) {
	return presetName(s.Rooms, id)
}

func presetName(presets []protocol.Preset, id string) (string, bool) {
	for _, p := range presets {
		if p.ID == id {
			return p.Name, true
		}
	}
	return "", false
}

// presetID finds a preset by name (case-insensitive) or by id.
func presetID(presets []protocol.Preset, name string) (string, bool) {
	for _, p := range presets {
		if strings.EqualFold(p.Name, name) || p.ID == name {
			return p.ID, true
		}
	}
	return "", false
}
