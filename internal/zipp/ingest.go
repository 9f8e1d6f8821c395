package zipp

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/muurk/zipp/internal/hub"
	"github.com/muurk/zipp/internal/logging"
	"github.com/muurk/zipp/internal/protocol"
)

// Ingest decodes a datagram from the speaker and applies it. Malformed
// datagrams are logged and dropped.
func (s *Session) Ingest(raw []byte, role hub.Role) {
	p, err := protocol.Decode(raw)
	if err != nil {
		s.log.Warn("Dropping malformed packet",
			zap.Stringer("role", role),
			zap.Error(err),
			zap.String("hex", logging.HexDump(raw)),
		)
		return
	}
	s.Apply(p)
}

// Apply updates the snapshot from one decoded packet. Each field is
// replaced independently, so duplicates and reordering are harmless.
// Structured payloads are applied whole or reset to unset.
func (s *Session) Apply(p *protocol.Packet) {
	op := p.Opcode()
	if op == protocol.OpNone || len(p.Data) == 0 {
		return
	}

	switch op {
	case protocol.OpPlayStatus:
		s.applyText(p, func(snap *Snapshot, text string) {
			status, ok := parsePlayStatus(text)
			if !ok {
				s.log.Debug("Unrecognised play status", zap.String("payload", text))
				return
			}
			snap.PlayStatus = status
		})

	case protocol.OpPowerMode:
		s.applyText(p, func(snap *Snapshot, text string) {
			mode, ok := parsePowerMode(text)
			if !ok {
				s.log.Debug("Unrecognised power mode", zap.String("payload", text))
				return
			}
			snap.PowerMode = mode
		})

	case protocol.OpVoicingList:
		presets := s.parsePresets(p)
		s.update(func(snap *Snapshot) { snap.Voicings = presets })

	case protocol.OpRoomList:
		presets := s.parsePresets(p)
		s.update(func(snap *Snapshot) { snap.Rooms = presets })

	case protocol.OpVoicing:
		s.applyText(p, func(snap *Snapshot, id string) {
			snap.Voicing = s.translate(snap.Voicings, id, "voicing")
		})

	case protocol.OpRoom:
		s.applyText(p, func(snap *Snapshot, id string) {
			snap.Room = s.translate(snap.Rooms, id, "room")
		})

	case protocol.OpPlayer:
		player, err := protocol.ParsePlayer(p.Data)
		if err != nil {
			s.log.Warn("Resetting player info", zap.Error(err))
		}
		s.update(func(snap *Snapshot) { snap.Player = player })

	case protocol.OpChannelList:
		channels, err := protocol.ParseChannels(p.Data)
		if err != nil {
			s.log.Warn("Resetting channel list", zap.Error(err))
		}
		s.update(func(snap *Snapshot) { snap.Channels = channels })

	case protocol.OpTimer:
		var timer *protocol.Timer
		if t, ok := protocol.DecodeTimer(p.Data); ok {
			timer = &t
		} else {
			s.log.Debug("Unrecognised timer payload", zap.String("hex", logging.HexDump(p.Data)))
		}
		s.update(func(snap *Snapshot) { snap.Timer = timer })

	case protocol.OpGroup:
		// Leading noise bytes are not always valid UTF-8.
		text := strings.ToValidUTF8(string(p.Data), string(utf8.RuneError))
		group := protocol.ParseGroup(text)
		if group.Status == protocol.GroupStatusUnknown {
			s.log.Info("Unrecognised group status", zap.String("raw", text))
		}
		s.update(func(snap *Snapshot) { snap.Group = &group })

	case protocol.OpVersion:
		s.applyText(p, func(snap *Snapshot, text string) { snap.Version = text })
	case protocol.OpName:
		s.applyText(p, func(snap *Snapshot, text string) { snap.Name = text })
	case protocol.OpVolume:
		s.applyText(p, func(snap *Snapshot, text string) { snap.Volume = text })
	case protocol.OpBatteryLevel:
		s.applyText(p, func(snap *Snapshot, text string) { snap.BatteryLevel = text })
	case protocol.OpSignalStrength:
		s.applyText(p, func(snap *Snapshot, text string) { snap.SignalStrength = text })
	case protocol.OpSerialNumber:
		s.applyText(p, func(snap *Snapshot, text string) { snap.SerialNumber = text })
	case protocol.OpMuteStatus:
		s.applyText(p, func(snap *Snapshot, text string) { snap.MuteStatus = text })
	case protocol.OpColor:
		s.applyText(p, func(snap *Snapshot, text string) { snap.Color = text })
	case protocol.OpChargingStatus:
		s.applyText(p, func(snap *Snapshot, text string) { snap.ChargingStatus = text })

	default:
		if s.cfg.LogUnknown {
			s.log.Info("Unhandled opcode",
				zap.Stringer("opcode", op),
				zap.Uint8("type", p.CommandType),
				zap.String("hex", logging.HexDump(p.Data)),
				zap.ByteString("text", p.Data),
			)
		}
	}
}

// applyText decodes the payload as text and hands it to edit inside a
// snapshot update. Non-UTF-8 payloads are logged and skipped.
func (s *Session) applyText(p *protocol.Packet, edit func(*Snapshot, string)) {
	text, err := p.Text()
	if err != nil {
		s.log.Warn("Ignoring non-text payload", zap.Stringer("opcode", p.Opcode()), zap.Error(err))
		return
	}
	s.update(func(snap *Snapshot) { edit(snap, text) })
}

func (s *Session) parsePresets(p *protocol.Packet) []protocol.Preset {
	presets, err := protocol.ParsePresets(p.Data)
	if err != nil {
		s.log.Warn("Resetting preset list", zap.Stringer("opcode", p.Opcode()), zap.Error(err))
		return nil
	}
	return presets
}

// translate maps a preset id to its name. Without a matching entry the
// field is left unset.
func (s *Session) translate(presets []protocol.Preset, id, kind string) string {
	if presets == nil {
		s.log.Debug("Cannot translate id before preset list arrives", zap.String("kind", kind), zap.String("id", id))
		return ""
	}
	name, ok := presetName(presets, id)
	if !ok {
		s.log.Debug("Unknown preset id", zap.String("kind", kind), zap.String("id", id))
		return ""
	}
	return name
}
