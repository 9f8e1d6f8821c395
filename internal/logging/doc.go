// Package logging provides structured logging for the zipp driver and CLI.
//
// This package wraps a global zap logger with convenience functions. Logging
// is silent unless a level is given, so CLI output stays clean by default.
//
// # Log Levels
//
//   - Debug: packet dumps, ignored opcodes, keep-alive cycles
//   - Info: session start/stop, state transitions
//   - Warn: dropped packets, unreachable speakers, parse failures
//   - Error: socket failures
//
// # Configuration
//
//	if err := logging.InitializeFromEnv(); err != nil { // reads ZIPP_LOG_LEVEL
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Packet Logging
//
//	logging.LogPacket("received", "192.168.1.20", "notify", buf)
//
// Dumps are truncated to 256 bytes and only rendered when debug is enabled.
package logging
