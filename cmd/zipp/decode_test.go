package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muurk/zipp/internal/protocol"
)

func TestDecodeStream(t *testing.T) {
	input := strings.Join([]string{
		"# volume notification",
		"aa aa 02 00 40 00 00 00 00 02 34 32",
		"",
		"aaaa020000000000000a", // declares 10 bytes, has none
		"zz",
		"aa:aa:02:00:00:00:00:00:00:00",
	}, "\n")

	var out bytes.Buffer
	stats, err := decodeStream(strings.NewReader(input), &out)
	if err != nil {
		t.Fatalf("decodeStream() error = %v", err)
	}

	if stats.Total != 4 || stats.Decoded != 2 || stats.Failed != 2 {
		t.Errorf("stats = %+v, want 4 total, 2 decoded, 2 failed", stats)
	}
	if stats.Opcodes[protocol.OpVolume] != 1 {
		t.Errorf("volume count = %d, want 1", stats.Opcodes[protocol.OpVolume])
	}
	if !strings.Contains(out.String(), `"42"`) {
		t.Errorf("output should show the text payload, got:\n%s", out.String())
	}
}

func TestDescribePacketBinary(t *testing.T) {
	p := &protocol.Packet{RemoteID: 0xAAAA, CommandType: 2, Command: uint16(protocol.OpTimer), DataLength: 3, Data: []byte{0x32, 0x10, 0x0e}}
	got := describePacket(p)
	if !strings.Contains(got, "32100e") {
		t.Errorf("describePacket() = %q, want hex payload", got)
	}
}

func TestDecodeStatsPrint(t *testing.T) {
	stats := &decodeStats{
		Total:    2,
		Decoded:  1,
		Failed:   1,
		Opcodes:  map[protocol.Opcode]int{protocol.OpVolume: 1},
		Failures: []string{"zz: invalid hex"},
	}
	var out bytes.Buffer
	stats.print(&out)

	for _, want := range []string{"2 packets", "Volume", "failed: zz"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("print() missing %q:\n%s", want, out.String())
		}
	}
}
