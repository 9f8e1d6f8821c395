package main

import (
	"testing"
)

func TestParseTimerArg(t *testing.T) {
	tests := []struct {
		arg     string
		want    int
		wantErr bool
	}{
		{"900", 900, false},
		{"30m", 1800, false},
		{"1h2m3s", 3723, false},
		{"0", 0, false},
		{"1.5s", 0, true},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseTimerArg(tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTimerArg(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseTimerArg(%q) = %d, want %d", tt.arg, got, tt.want)
			}
		})
	}
}

func TestCommandTree(t *testing.T) {
	want := []string{
		"play", "pause", "stop", "next", "prev", "sleep", "wake",
		"volume", "name", "voicing", "room", "favorite", "timer",
		"group", "info", "watch", "scan", "nickname", "decode", "version",
	}

	have := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("missing command %q", name)
		}
	}

	if rootCmd.PersistentFlags().Lookup("speaker") == nil {
		t.Error("missing --speaker flag")
	}
	if rootCmd.PersistentFlags().Lookup("timeout") == nil {
		t.Error("missing --timeout flag")
	}
}

func TestGroupSubcommands(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"group", "join", "abc"})
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if cmd != groupJoinCmd {
		t.Errorf("Find(group join) = %s, want join", cmd.Name())
	}
}

func TestActionCommandsRejectArgs(t *testing.T) {
	for _, c := range rootCmd.Commands() {
		for _, ac := range actionCommands {
			if c.Name() != ac.use {
				continue
			}
			if err := c.Args(c, []string{"extra"}); err == nil {
				t.Errorf("%s accepted an argument", ac.use)
			}
		}
	}
}
