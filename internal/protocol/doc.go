// Package protocol implements the LUCI UDP protocol spoken by Libratone Zipp speakers.
//
// This package handles encoding and decoding of datagrams, the opcode table,
// and parsing of the structured payloads (timer, group, JSON descriptors).
// It performs no I/O.
//
// # Protocol Overview
//
// Every datagram carries a 10-byte header followed by an optional payload:
//   - Remote ID: 2 bytes, 0xAAAA from clients
//   - Command type: 1 byte, 1 = get, 2 = set/notify
//   - Command: 2 bytes, the opcode
//   - Command status: 1 byte, 0 from clients
//   - CRC: 2 bytes, a random correlation token (not a checksum)
//   - Data length: 2 bytes
//   - Data: Variable length
//
// All multi-byte header fields are big-endian. The CRC is never validated.
//
// # Ports
//
//   - 7777: speaker control port, clients send commands here
//   - 7778: client result port, replies to get commands
//   - 3333: client notification port, unsolicited state changes
//   - 3334: speaker ack port, every notification must be acked here
//
// # Payloads
//
// Most payloads are ASCII text (volume "42", name, voicing id). Play status
// and power mode are short enumerations. Player, channel and preset lists are
// JSON. The timer notification is binary:
//   - 0xff or empty: no timer
//   - 0x32 followed by little-endian uint16 seconds: timer running
//
// # Usage Example - Encoding
//
//	pkt, err := protocol.EncodeText(uint16(protocol.OpVolume), "42")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Queries use the get command type and no payload
//	query, _ := protocol.Encode(uint16(protocol.OpVolume), nil,
//	    protocol.WithCommandType(protocol.CommandTypeGet))
//
// # Usage Example - Decoding
//
//	p, err := protocol.Decode(buf[:n])
//	if err != nil {
//	    if protocol.IsMalformed(err) {
//	        // drop and log
//	    }
//	    return
//	}
//
//	switch p.Opcode() {
//	case protocol.OpTimer:
//	    timer, ok := protocol.DecodeTimer(p.Data)
//	    ...
//	}
package protocol
