package protocol

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name        string
		command     uint16
		data        []byte
		opts        []EncodeOption
		wantErr     bool
		checkFields func(t *testing.T, pkt []byte)
	}{
		{
			name:    "volume set",
			command: uint16(OpVolume),
			data:    []byte("42"),
			checkFields: func(t *testing.T, pkt []byte) {
				if len(pkt) != HeaderSize+2 {
					t.Fatalf("packet size = %d, want %d", len(pkt), HeaderSize+2)
				}
				if !bytes.Equal(pkt[0:2], []byte{0xaa, 0xaa}) {
					t.Errorf("remote id = %x, want aaaa", pkt[0:2])
				}
				if pkt[2] != CommandTypeSet {
					t.Errorf("command type = %d, want %d", pkt[2], CommandTypeSet)
				}
				if got := binary.BigEndian.Uint16(pkt[3:5]); got != 64 {
					t.Errorf("command = %d, want 64", got)
				}
				if pkt[5] != 0 {
					t.Errorf("command status = %d, want 0", pkt[5])
				}
				if crc := binary.BigEndian.Uint16(pkt[6:8]); crc == 0 {
					t.Error("crc = 0, want 1..65535")
				}
				if got := binary.BigEndian.Uint16(pkt[8:10]); got != 2 {
					t.Errorf("data length = %d, want 2", got)
				}
				if string(pkt[10:]) != "42" {
					t.Errorf("payload = %q, want \"42\"", pkt[10:])
				}
			},
		},
		{
			name:    "get without payload",
			command: uint16(OpVolume),
			opts:    []EncodeOption{WithCommandType(CommandTypeGet)},
			checkFields: func(t *testing.T, pkt []byte) {
				if len(pkt) != HeaderSize {
					t.Fatalf("packet size = %d, want %d", len(pkt), HeaderSize)
				}
				if pkt[2] != CommandTypeGet {
					t.Errorf("command type = %d, want %d", pkt[2], CommandTypeGet)
				}
				if got := binary.BigEndian.Uint16(pkt[8:10]); got != 0 {
					t.Errorf("data length = %d, want 0", got)
				}
			},
		},
		{
			name:    "fixed crc and status",
			command: 0x1234,
			data:    []byte{0x01},
			opts:    []EncodeOption{WithCRC(0xbeef), WithCommandStatus(7)},
			checkFields: func(t *testing.T, pkt []byte) {
				want := []byte{0xaa, 0xaa, 0x02, 0x12, 0x34, 0x07, 0xbe, 0xef, 0x00, 0x01, 0x01}
				if !bytes.Equal(pkt, want) {
					t.Errorf("packet = %x, want %x", pkt, want)
				}
			},
		},
		{
			name:    "payload too large",
			command: uint16(OpName),
			data:    make([]byte, MaxPayloadSize+1),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkt, err := Encode(tt.command, tt.data, tt.opts...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Encode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.checkFields != nil {
				tt.checkFields(t, pkt)
			}
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		command uint16
		cmdType byte
		data    []byte
	}{
		{"text payload", uint16(OpName), CommandTypeSet, []byte("Kitchen")},
		{"empty payload", uint16(OpPlayStatus), CommandTypeGet, nil},
		{"binary payload", uint16(OpTimer), CommandTypeSet, []byte{0x32, 0x2c, 0x01}},
		{"json payload", uint16(OpPlayer), CommandTypeSet, []byte(Favorites[1])},
		{"max opcode", 0xFFFF, CommandTypeSet, []byte{0x00}},
		{"opcode zero", 0, CommandTypeSet, []byte("0")},
		{"4096 byte payload", uint16(OpName), CommandTypeSet, bytes.Repeat([]byte("z"), 4096)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := Encode(tt.command, tt.data, WithCommandType(tt.cmdType))
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			p, err := Decode(raw)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}

			if p.RemoteID != RemoteID {
				t.Errorf("RemoteID = 0x%04x, want 0x%04x", p.RemoteID, RemoteID)
			}
			if p.CommandType != tt.cmdType {
				t.Errorf("CommandType = %d, want %d", p.CommandType, tt.cmdType)
			}
			if p.Command != tt.command {
				t.Errorf("Command = %d, want %d", p.Command, tt.command)
			}
			if p.CRC == 0 {
				t.Error("CRC = 0, want non-zero")
			}
			if int(p.DataLength) != len(tt.data) {
				t.Errorf("DataLength = %d, want %d", p.DataLength, len(tt.data))
			}
			if !bytes.Equal(p.Data, tt.data) {
				t.Errorf("Data = %x, want %x", p.Data, tt.data)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name          string
		raw           []byte
		wantMalformed bool
		wantCommand   uint16
		wantData      []byte
	}{
		{
			name:          "five bytes",
			raw:           []byte{0xaa, 0xaa, 0x02, 0x00, 0x40},
			wantMalformed: true,
		},
		{
			name:          "empty datagram",
			raw:           []byte{},
			wantMalformed: true,
		},
		{
			name:          "declared length overruns buffer",
			raw:           []byte{0xaa, 0xaa, 0x02, 0x00, 0x40, 0x00, 0x12, 0x34, 0x00, 0x05, '4', '2'},
			wantMalformed: true,
		},
		{
			name:        "header only",
			raw:         []byte{0xaa, 0xaa, 0x02, 0x00, 0x33, 0x00, 0x12, 0x34, 0x00, 0x00},
			wantCommand: 51,
		},
		{
			name:        "trailing bytes ignored",
			raw:         []byte{0xaa, 0xaa, 0x02, 0x00, 0x40, 0x00, 0x12, 0x34, 0x00, 0x02, '4', '2', 0x00, 0x00},
			wantCommand: 64,
			wantData:    []byte("42"),
		},
		{
			name:        "device remote id accepted",
			raw:         []byte{0x00, 0x01, 0x02, 0x00, 0x5a, 0x00, 0x00, 0x00, 0x00, 0x03, 'Z', 'i', 'p'},
			wantCommand: 90,
			wantData:    []byte("Zip"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Decode(tt.raw)
			if tt.wantMalformed {
				if !IsMalformed(err) {
					t.Fatalf("Decode() error = %v, want MalformedPacketError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if p.Command != tt.wantCommand {
				t.Errorf("Command = %d, want %d", p.Command, tt.wantCommand)
			}
			if !bytes.Equal(p.Data, tt.wantData) {
				t.Errorf("Data = %q, want %q", p.Data, tt.wantData)
			}
		})
	}
}

func TestDecodeCopiesData(t *testing.T) {
	raw, _ := EncodeText(uint16(OpName), "abc")
	p, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	raw[HeaderSize] = 'X'
	if string(p.Data) != "abc" {
		t.Errorf("Data = %q after buffer reuse, want \"abc\"", p.Data)
	}
}

func TestPacketText(t *testing.T) {
	p := &Packet{Data: []byte("Living Room")}
	text, err := p.Text()
	if err != nil || text != "Living Room" {
		t.Errorf("Text() = %q, %v; want \"Living Room\", nil", text, err)
	}

	p = &Packet{Data: []byte{0xff, 0xfe, 0xfd}}
	if _, err := p.Text(); err == nil {
		t.Error("Text() on invalid UTF-8: expected error, got nil")
	}
}

func TestNewCRCRange(t *testing.T) {
	for i := 0; i < 10000; i++ {
		if NewCRC() == 0 {
			t.Fatal("NewCRC() returned 0")
		}
	}
}

func TestFixedPackets(t *testing.T) {
	wantAck := []byte{0xaa, 0xaa, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	if got := AckPacket(); !bytes.Equal(got, wantAck) {
		t.Errorf("AckPacket() = %x, want %x", got, wantAck)
	}

	wantTrigger := []byte{0xaa, 0xaa, 0x02, 0x05, 0x04, 0x00, 0xff, 0xff, 0x00, 0x00}
	if got := TriggerPacket(); !bytes.Equal(got, wantTrigger) {
		t.Errorf("TriggerPacket() = %x, want %x", got, wantTrigger)
	}
}

func TestPacketString(t *testing.T) {
	p := &Packet{CommandType: CommandTypeSet, Command: 64, CRC: 0x1234, DataLength: 2}
	want := "Packet{type=2, command=Volume(64), status=0, crc=0x1234, len=2}"
	if got := p.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
