package protocol

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand"
	"unicode/utf8"
)

// Packet layout constants
const (
	HeaderSize     = 10     // RemoteID(2) + CommandType(1) + Command(2) + CommandStatus(1) + CRC(2) + DataLength(2)
	RemoteID       = 0xAAAA // Same for every outgoing packet
	MaxPayloadSize = 0xFFFF // DataLength is a 16-bit field
)

// Command types
const (
	CommandTypeGet byte = 0x01 // Query
	CommandTypeSet byte = 0x02 // Set / notify, default
)

// Packet is a decoded LUCI datagram.
//
// Wire format (all multi-byte fields big-endian):
//
//	[0-1]   remote_id      0xAAAA from clients
//	[2]     command_type   1 = get, 2 = set/notify
//	[3-4]   command        opcode
//	[5]     command_status 0 from clients
//	[6-7]   crc            random correlation token, never validated
//	[8-9]   data_length    payload length in bytes
//	[10+]   data           payload
type Packet struct {
	RemoteID      uint16
	CommandType   byte
	Command       uint16
	CommandStatus byte
	CRC           uint16
	DataLength    uint16
	Data          []byte
}

// MalformedPacketError reports a datagram that cannot hold the header or
// its declared payload.
type MalformedPacketError struct {
	Reason string
	Length int // Length of the received buffer
}

func (e *MalformedPacketError) Error() string {
	return fmt.Sprintf("malformed packet (%d bytes): %s", e.Length, e.Reason)
}

// IsMalformed reports whether err is (or wraps) a MalformedPacketError.
func IsMalformed(err error) bool {
	var mpe *MalformedPacketError
	return errors.As(err, &mpe)
}

type encodeOptions struct {
	commandType   byte
	commandStatus byte
	crc           uint16
	fixedCRC      bool
}

// EncodeOption customises a packet built by Encode.
type EncodeOption func(*encodeOptions)

// WithCommandType overrides the default set/notify command type.
func WithCommandType(t byte) EncodeOption {
	return func(o *encodeOptions) { o.commandType = t }
}

// WithCommandStatus sets the command status byte.
func WithCommandStatus(s byte) EncodeOption {
	return func(o *encodeOptions) { o.commandStatus = s }
}

// WithCRC pins the correlation token instead of drawing a random one.
func WithCRC(crc uint16) EncodeOption {
	return func(o *encodeOptions) {
		o.crc = crc
		o.fixedCRC = true
	}
}

// Encode builds a datagram for command carrying data.
//
// A nil or empty data produces a bare 10-byte header with DataLength 0.
// The CRC is a fresh random value in 1..65535 unless WithCRC is given.
func Encode(command uint16, data []byte, opts ...EncodeOption) ([]byte, error) {
	if len(data) > MaxPayloadSize {
		return nil, fmt.Errorf("payload too large: %d bytes (max %d)", len(data), MaxPayloadSize)
	}

	o := encodeOptions{commandType: CommandTypeSet}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.fixedCRC {
		o.crc = NewCRC()
	}

	buf := make([]byte, HeaderSize+len(data))
	binary.BigEndian.PutUint16(buf[0:2], RemoteID)
	buf[2] = o.commandType
	binary.BigEndian.PutUint16(buf[3:5], command)
	buf[5] = o.commandStatus
	binary.BigEndian.PutUint16(buf[6:8], o.crc)
	binary.BigEndian.PutUint16(buf[8:10], uint16(len(data)))
	copy(buf[HeaderSize:], data)

	return buf, nil
}

// EncodeText is Encode for ASCII/UTF-8 payloads. An empty string sends no payload.
func EncodeText(command uint16, text string, opts ...EncodeOption) ([]byte, error) {
	if text == "" {
		return Encode(command, nil, opts...)
	}
	return Encode(command, []byte(text), opts...)
}

// Decode parses a received datagram.
//
// Bytes past the declared payload are ignored. Data is copied so the caller
// may reuse raw.
func Decode(raw []byte) (*Packet, error) {
	if len(raw) < HeaderSize {
		return nil, &MalformedPacketError{
			Reason: fmt.Sprintf("shorter than %d-byte header", HeaderSize),
			Length: len(raw),
		}
	}

	p := &Packet{
		RemoteID:      binary.BigEndian.Uint16(raw[0:2]),
		CommandType:   raw[2],
		Command:       binary.BigEndian.Uint16(raw[3:5]),
		CommandStatus: raw[5],
		CRC:           binary.BigEndian.Uint16(raw[6:8]),
		DataLength:    binary.BigEndian.Uint16(raw[8:10]),
	}

	end := HeaderSize + int(p.DataLength)
	if end > len(raw) {
		return nil, &MalformedPacketError{
			Reason: fmt.Sprintf("declared %d payload bytes, only %d present", p.DataLength, len(raw)-HeaderSize),
			Length: len(raw),
		}
	}

	if p.DataLength > 0 {
		p.Data = make([]byte, p.DataLength)
		copy(p.Data, raw[HeaderSize:end])
	}

	return p, nil
}

// Opcode returns the command as a typed opcode.
func (p *Packet) Opcode() Opcode {
	return Opcode(p.Command)
}

// Text returns the payload as a string. It fails on invalid UTF-8 so the
// caller can fall back to logging the raw bytes.
func (p *Packet) Text() (string, error) {
	if !utf8.Valid(p.Data) {
		return "", fmt.Errorf("payload is not valid UTF-8: %s", hex.EncodeToString(p.Data))
	}
	return string(p.Data), nil
}

// String returns a debug representation of the packet
func (p *Packet) String() string {
	return fmt.Sprintf("Packet{type=%d, command=%s, status=%d, crc=0x%04x, len=%d}",
		p.CommandType, p.Opcode(), p.CommandStatus, p.CRC, p.DataLength)
}

// NewCRC draws a random correlation token in 1..65535.
func NewCRC() uint16 {
	return uint16(rand.Intn(0xFFFF) + 1)
}

// AckPacket returns the acknowledgement owed for every notification.
// Without it the speaker stops pushing notifications.
func AckPacket() []byte {
	return []byte{0xaa, 0xaa, CommandTypeSet, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
}

// TriggerPacket returns the wake trigger: a payload-less charging status
// notify with CRC 0xffff. The speaker answers with a burst of notifications.
func TriggerPacket() []byte {
	pkt, _ := Encode(uint16(OpChargingStatus), nil, WithCRC(0xffff))
	return pkt
}
