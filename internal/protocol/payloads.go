package protocol

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Timer is the decoded sleep timer state.
type Timer struct {
	Active    bool
	Remaining time.Duration
}

// String returns a human-readable timer value
func (t Timer) String() string {
	if !t.Active {
		return "none"
	}
	return t.Remaining.String()
}

// DecodeTimer decodes a timer notification payload.
//
//	empty or [0xff]         no timer
//	[0x32, lo, hi]          active, lo/hi are little-endian seconds
//
// ok is false for anything else. The little-endian seconds are a protocol
// quirk; every other multi-byte field on the wire is big-endian.
func DecodeTimer(data []byte) (timer Timer, ok bool) {
	if len(data) == 0 {
		return Timer{}, true
	}
	switch data[0] {
	case TimerSentinelNone:
		if len(data) == 1 {
			return Timer{}, true
		}
	case TimerSentinelActive:
		if len(data) >= 3 {
			secs := binary.LittleEndian.Uint16(data[1:3])
			return Timer{Active: true, Remaining: time.Duration(secs) * time.Second}, true
		}
	}
	return Timer{}, false
}

// PresetEntry is one element of a voicing/room enumeration reply.
type PresetEntry struct {
	Name        string `json:"name"`
	ID          string `json:"id"`
	Description string `json:"description"`
}

// ParsePresets decodes a voicing or room enumeration. Any error, including
// an entry without an id, rejects the whole list.
func ParsePresets(data []byte) ([]Preset, error) {
	var entries []PresetEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse preset list: %w", err)
	}

	presets := make([]Preset, 0, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("preset %d has no id", i)
		}
		presets = append(presets, Preset{ID: e.ID, Name: e.Name, Description: e.Description})
	}
	return presets, nil
}

// PlayerInfo describes the current playback source (also used for channels
// and favorites).
type PlayerInfo struct {
	IsFromChannel bool   `json:"isFromChannel"`
	Identity      string `json:"play_identity"`
	Subtitle      string `json:"play_subtitle"`
	Title         string `json:"play_title"`
	Type          string `json:"play_type"`
	Token         string `json:"token"`
}

// ParsePlayer decodes a player descriptor. The result is either fully
// populated or nil.
func ParsePlayer(data []byte) (*PlayerInfo, error) {
	var p PlayerInfo
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse player: %w", err)
	}
	return &p, nil
}

// ParseChannels decodes the channel list reply.
func ParseChannels(data []byte) ([]PlayerInfo, error) {
	var channels []PlayerInfo
	if err := json.Unmarshal(data, &channels); err != nil {
		return nil, fmt.Errorf("failed to parse channel list: %w", err)
	}
	if channels == nil {
		channels = []PlayerInfo{}
	}
	return channels, nil
}

// GroupStatus is the multi-room grouping state.
type GroupStatus int

const (
	GroupStatusUnknown GroupStatus = iota
	GroupStatusUngrouped
	GroupStatusGrouped
)

// String returns a human-readable group status
func (s GroupStatus) String() string {
	switch s {
	case GroupStatusUngrouped:
		return "ungrouped"
	case GroupStatusGrouped:
		return "grouped"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name
func (s GroupStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// GroupRole is the role of a grouped speaker.
type GroupRole int

const (
	GroupRoleNone GroupRole = iota
	GroupRoleMaster
	GroupRoleSlave
)

// String returns a human-readable group role
func (r GroupRole) String() string {
	switch r {
	case GroupRoleMaster:
		return "master"
	case GroupRoleSlave:
		return "slave"
	default:
		return "none"
	}
}

// MarshalText encodes the role by name
func (r GroupRole) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// GroupInfo is a parsed group notification.
type GroupInfo struct {
	Status GroupStatus
	Role   GroupRole
	Link   string
	Raw    string // Original text, kept for diagnosis
}

// ParseGroup parses "<ROLE>,LINK <id>" or "UNGROUP". Speakers sometimes
// prefix the line with a stray control byte, so leading non-alphanumerics
// are skipped. Text that matches neither form comes back with
// GroupStatusUnknown and Raw set.
func ParseGroup(text string) GroupInfo {
	info := GroupInfo{Raw: text}

	s := strings.TrimLeftFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	s = strings.TrimSpace(s)
	upper := strings.ToUpper(s)

	if upper == GroupUngroup {
		info.Status = GroupStatusUngrouped
		return info
	}

	role, rest, found := strings.Cut(upper, ",")
	if !found {
		return info
	}

	switch strings.TrimSpace(role) {
	case GroupMaster:
		info.Role = GroupRoleMaster
	case GroupSlave:
		info.Role = GroupRoleSlave
	default:
		return info
	}

	fields := strings.Fields(rest)
	if len(fields) != 2 || fields[0] != GroupLinkTag {
		info.Role = GroupRoleNone
		return info
	}

	// Preserve the link id's original case
	_, origRest, _ := strings.Cut(s, ",")
	info.Link = strings.Fields(origRest)[1]
	info.Status = GroupStatusGrouped
	return info
}

// FormatGroupJoin builds the join payload for a link id.
func FormatGroupJoin(role GroupRole, link string) string {
	r := GroupSlave
	if role == GroupRoleMaster {
		r = GroupMaster
	}
	return fmt.Sprintf("%s,%s %s", r, GroupLinkTag, link)
}
