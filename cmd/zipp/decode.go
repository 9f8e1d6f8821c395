package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/zipp/internal/logging"
	"github.com/muurk/zipp/internal/protocol"
)

var decodeCmd = &cobra.Command{
	Use:   "decode [hex...]",
	Short: "Decode captured packets",
	Long: `Decode protocol packets given as hex, one per argument or one per line
on stdin. Spaces and colons in the hex are ignored. A summary of opcodes
and failures is printed at the end.`,
	Example: `  zipp decode "aa aa 02 00 40 00 00 00 00 02 34 32"
  zipp decode < captures.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = strings.NewReader(strings.Join(args, "\n"))
		if len(args) == 0 {
			in = os.Stdin
		}
		stats, err := decodeStream(in, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		stats.print(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

// decodeStats tracks decoding results
type decodeStats struct {
	Total    int
	Decoded  int
	Failed   int
	Opcodes  map[protocol.Opcode]int
	Failures []string
}

// decodeStream decodes every non-empty line of r and writes one line per
// packet to w.
func decodeStream(r io.Reader, w io.Writer) (*decodeStats, error) {
	stats := &decodeStats{Opcodes: make(map[protocol.Opcode]int)}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		stats.Total++

		raw, err := hex.DecodeString(cleanHex(line))
		if err != nil {
			stats.fail(line, fmt.Errorf("invalid hex: %w", err))
			continue
		}

		p, err := protocol.Decode(raw)
		if err != nil {
			stats.fail(line, err)
			continue
		}
		stats.Decoded++
		stats.Opcodes[p.Opcode()]++

		fmt.Fprintln(w, describePacket(p))
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("failed to read input: %w", err)
	}
	return stats, nil
}

func (s *decodeStats) fail(line string, err error) {
	s.Failed++
	if len(line) > 40 {
		line = line[:40] + "..."
	}
	s.Failures = append(s.Failures, fmt.Sprintf("%s: %v", line, err))
}

// describePacket renders the header and the payload as text when it is
// printable, hex otherwise.
func describePacket(p *protocol.Packet) string {
	var b strings.Builder
	b.WriteString(p.String())
	if len(p.Data) == 0 {
		return b.String()
	}
	if text, err := p.Text(); err == nil && isPrintable(text) {
		fmt.Fprintf(&b, " %q", text)
	} else {
		b.WriteString("\n")
		b.WriteString(logging.HexDump(p.Data))
	}
	return b.String()
}

func isPrintable(s string) bool {
	for _, r := range s {
		if r < 0x20 && r != '\n' && r != '\t' {
			return false
		}
	}
	return true
}

func cleanHex(s string) string {
	return strings.NewReplacer(" ", "", ":", "", "0x", "").Replace(s)
}

func (s *decodeStats) print(w io.Writer) {
	fmt.Fprintf(w, "\n%d packets, %d decoded, %d failed\n", s.Total, s.Decoded, s.Failed)

	ops := make([]protocol.Opcode, 0, len(s.Opcodes))
	for op := range s.Opcodes {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	for _, op := range ops {
		fmt.Fprintf(w, "  %-28s %d\n", op, s.Opcodes[op])
	}

	for _, f := range s.Failures {
		fmt.Fprintf(w, "  failed: %s\n", f)
	}
}
