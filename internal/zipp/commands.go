package zipp

import (
	"fmt"
	"net"
	"strconv"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/muurk/zipp/internal/protocol"
)

// Volume bounds
const (
	VolumeMin = 0
	VolumeMax = 100
)

// send encodes and writes one packet. It never waits for a reply.
func (s *Session) send(op string, opcode protocol.Opcode, data []byte, opts ...protocol.EncodeOption) error {
	if s.closed.Load() {
		return newClosedError(op)
	}

	pkt, err := protocol.Encode(uint16(opcode), data, opts...)
	if err != nil {
		return &CommandError{Type: ErrTypeValidation, Op: op, Message: "cannot encode payload", Err: err}
	}

	if err := s.transport.Send(s.host, pkt); err != nil {
		return newTransportError(op, err)
	}

	s.log.Debug("Command sent", zap.String("op", op), zap.Stringer("opcode", opcode))
	return nil
}

func (s *Session) set(op string, opcode protocol.Opcode, text string) error {
	return s.send(op, opcode, []byte(text))
}

func (s *Session) query(opcode protocol.Opcode) error {
	return s.send("get "+opcode.String(), opcode, nil, protocol.WithCommandType(protocol.CommandTypeGet))
}

// Play starts playback.
func (s *Session) Play() error {
	return s.set("play", protocol.OpPlayControl, protocol.PlayControlPlay)
}

// Pause pauses playback.
func (s *Session) Pause() error {
	return s.set("pause", protocol.OpPlayControl, protocol.PlayControlPause)
}

// Stop stops playback.
func (s *Session) Stop() error {
	return s.set("stop", protocol.OpPlayControl, protocol.PlayControlStop)
}

// Next skips to the next track.
func (s *Session) Next() error {
	return s.set("next", protocol.OpPlayControl, protocol.PlayControlNext)
}

// Previous returns to the previous track.
func (s *Session) Previous() error {
	return s.set("previous", protocol.OpPlayControl, protocol.PlayControlPrev)
}

// SetVolume sets the volume. Values outside 0..100 are rejected without
// sending anything.
func (s *Session) SetVolume(volume int) error {
	if volume < VolumeMin || volume > VolumeMax {
		return newValidationError("set volume", "volume %d outside %d..%d", volume, VolumeMin, VolumeMax)
	}
	return s.set("set volume", protocol.OpVolume, strconv.Itoa(volume))
}

// SetName renames the speaker.
func (s *Session) SetName(name string) error {
	if name == "" {
		return newValidationError("set name", "name is empty")
	}
	if len(name) > protocol.MaxPayloadSize {
		return newValidationError("set name", "name is %d bytes, max %d", len(name), protocol.MaxPayloadSize)
	}
	return s.set("set name", protocol.OpName, name)
}

// SetVoicing selects a voicing by name (or id) from the list the speaker
// reported. Fails without sending if the list has not arrived yet or does
// not contain name.
func (s *Session) SetVoicing(name string) error {
	return s.setPreset("set voicing", protocol.OpVoicing, s.snap.Load().Voicings, name)
}

// SetRoom selects a room setting by name (or id) from the list the speaker
// reported.
func (s *Session) SetRoom(name string) error {
	return s.setPreset("set room", protocol.OpRoom, s.snap.Load().Rooms, name)
}

func (s *Session) setPreset(op string, opcode protocol.Opcode, presets []protocol.Preset, name string) error {
	if presets == nil {
		return newNotReadyError(op, "preset list not received yet")
	}
	id, ok := presetID(presets, name)
	if !ok {
		return newValidationError(op, "unknown preset %q", name)
	}
	return s.set(op, opcode, id)
}

// PlayFavorite starts favorite slot 1..5.
func (s *Session) PlayFavorite(slot int) error {
	if slot < protocol.FavoriteMin || slot > protocol.FavoriteMax {
		return newValidationError("play favorite", "slot %d outside %d..%d", slot, protocol.FavoriteMin, protocol.FavoriteMax)
	}
	return s.set("play favorite", protocol.OpPlayer, protocol.Favorites[slot])
}

// SetTimer starts a sleep timer of 1..65535 seconds. Durations that encode
// the same as the wake or cancel commands are rejected.
func (s *Session) SetTimer(seconds int) error {
	if seconds < 1 || seconds > protocol.TimerMaxSecs {
		return newValidationError("set timer", "%d seconds outside 1..%d", seconds, protocol.TimerMaxSecs)
	}
	payload := strconv.Itoa(seconds)
	if protocol.IsTimerCommand(payload) {
		return newValidationError("set timer", "%d seconds is reserved for a timer command", seconds)
	}
	return s.set("set timer", protocol.OpTimer, payload)
}

// CancelTimer cancels a running sleep timer.
func (s *Session) CancelTimer() error {
	return s.set("cancel timer", protocol.OpTimer, protocol.TimerCancel)
}

// SleepNow puts the speaker to sleep.
func (s *Session) SleepNow() error {
	return s.set("sleep", protocol.OpTimer, protocol.TimerSleepNow)
}

// WakeNow wakes the speaker.
func (s *Session) WakeNow() error {
	return s.set("wake", protocol.OpTimer, protocol.TimerWakeNow)
}

// JoinGroup joins the multi-room group identified by link as a slave.
func (s *Session) JoinGroup(link string) error {
	if link == "" {
		return newValidationError("join group", "link id is empty")
	}
	return s.set("join group", protocol.OpGroupJoin, protocol.FormatGroupJoin(protocol.GroupRoleSlave, link))
}

// LeaveGroup leaves the current multi-room group.
func (s *Session) LeaveGroup() error {
	return s.set("leave group", protocol.OpGroupLeave, protocol.GroupUngroup)
}

// RegisterListener asks the speaker to push notifications to ip:port.
func (s *Session) RegisterListener(ip string, port int) error {
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.To4() == nil {
		return newValidationError("register listener", "invalid IPv4 address %q", ip)
	}
	if port < 1 || port > 65535 {
		return newValidationError("register listener", "port %d outside 1..65535", port)
	}
	return s.set("register listener", protocol.OpRegisterListener, fmt.Sprintf("%s,%d", parsed.To4(), port))
}

// SendTrigger re-sends the wake trigger that makes the speaker push its state.
func (s *Session) SendTrigger() error {
	if s.closed.Load() {
		return newClosedError("trigger")
	}
	if err := s.transport.Send(s.host, protocol.TriggerPacket()); err != nil {
		return newTransportError("trigger", err)
	}
	return nil
}

// Fetch issues a get for any queryable opcode. The reply updates the
// snapshot when it arrives.
func (s *Session) Fetch(opcode protocol.Opcode) error {
	if opcode == protocol.OpBatteryLevel {
		return s.FetchBatteryLevel()
	}
	c, ok := protocol.Lookup(opcode)
	if !ok || (c.Get != opcode && c.GetAll != opcode) {
		return newValidationError("fetch", "%s cannot be queried", opcode)
	}
	return s.query(opcode)
}

func (s *Session) FetchVersion() error        { return s.query(protocol.OpVersion) }
func (s *Session) FetchTimer() error          { return s.query(protocol.OpTimer) }
func (s *Session) FetchPowerMode() error      { return s.query(protocol.OpPowerMode) }
func (s *Session) FetchPlayStatus() error     { return s.query(protocol.OpPlayStatus) }
func (s *Session) FetchMuteStatus() error     { return s.query(protocol.OpMuteStatus) }
func (s *Session) FetchVolume() error         { return s.query(protocol.OpVolume) }
func (s *Session) FetchName() error           { return s.query(protocol.OpName) }
func (s *Session) FetchSignalStrength() error { return s.query(protocol.OpSignalStrength) }
func (s *Session) FetchSerialNumber() error   { return s.query(protocol.OpSerialNumber) }
func (s *Session) FetchChannels() error       { return s.query(protocol.OpChannelList) }
func (s *Session) FetchPlayer() error         { return s.query(protocol.OpPlayer) }
func (s *Session) FetchVoicing() error        { return s.query(protocol.OpVoicing) }
func (s *Session) FetchVoicings() error       { return s.query(protocol.OpVoicingList) }
func (s *Session) FetchRoom() error           { return s.query(protocol.OpRoom) }
func (s *Session) FetchRooms() error          { return s.query(protocol.OpRoomList) }
func (s *Session) FetchColor() error          { return s.query(protocol.OpColor) }
func (s *Session) FetchChargingStatus() error { return s.query(protocol.OpChargingStatus) }

// FetchBatteryLevel primes the battery reading, then queries it. The speaker
// ignores a bare battery get.
func (s *Session) FetchBatteryLevel() error {
	if err := s.send("prime battery", protocol.OpBatteryPrime, nil); err != nil {
		return err
	}
	return s.query(protocol.OpBatteryLevel)
}

// RefreshActive queries every field that changes during normal operation.
// All queries are attempted; failures are combined.
func (s *Session) RefreshActive() error {
	var err error
	for _, op := range protocol.ActiveQueries {
		err = multierr.Append(err, s.query(op))
	}
	return multierr.Append(err, s.FetchBatteryLevel())
}

// RefreshLifecycle queries the fields that stay fixed once known.
func (s *Session) RefreshLifecycle() error {
	var err error
	for _, op := range protocol.LifecycleQueries {
		err = multierr.Append(err, s.query(op))
	}
	return err
}
