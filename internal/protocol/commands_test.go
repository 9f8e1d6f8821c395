package protocol

import (
	"encoding/json"
	"testing"
)

func TestOpcodeString(t *testing.T) {
	tests := []struct {
		op   Opcode
		want string
	}{
		{OpVolume, "Volume(64)"},
		{OpChargingStatus, "ChargingStatus(1284)"},
		{Opcode(9999), "Unknown(9999)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.op.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		op       Opcode
		wantName string
		wantOK   bool
	}{
		{"get opcode", OpVolume, "volume", true},
		{"get-all opcode", OpVoicingList, "voicing", true},
		{"set-only opcode", OpGroupJoin, "group", true},
		{"none", OpNone, "", false},
		{"unknown", Opcode(4242), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := Lookup(tt.op)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%v) ok = %v, want %v", tt.op, ok, tt.wantOK)
			}
			if c.Name != tt.wantName {
				t.Errorf("Lookup(%v) name = %q, want %q", tt.op, c.Name, tt.wantName)
			}
		})
	}
}

func TestCapabilityDirections(t *testing.T) {
	if CapPlayControl.CanGet() {
		t.Error("play control should not be queryable")
	}
	if !CapPlayControl.CanSet() {
		t.Error("play control should be settable")
	}
	if CapVersion.CanSet() {
		t.Error("version should not be settable")
	}
}

func TestFavoritesAreValidPlayers(t *testing.T) {
	for slot := FavoriteMin; slot <= FavoriteMax; slot++ {
		raw, ok := Favorites[slot]
		if !ok {
			t.Fatalf("favorite %d missing", slot)
		}
		var p PlayerInfo
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			t.Errorf("favorite %d: invalid JSON: %v", slot, err)
		}
		if p.Type != "channel" {
			t.Errorf("favorite %d: play_type = %q, want \"channel\"", slot, p.Type)
		}
	}
}

func TestVoicingPresetIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, p := range VoicingPresets {
		if seen[p.ID] {
			t.Errorf("duplicate voicing id %s", p.ID)
		}
		seen[p.ID] = true
	}
	if len(seen) != 9 {
		t.Errorf("got %d voicing presets, want 9", len(seen))
	}
}

func TestIsTimerCommand(t *testing.T) {
	tests := []struct {
		payload string
		want    bool
	}{
		{TimerSleepNow, true},
		{TimerWakeNow, true},
		{TimerCancel, true},
		{"1", false},
		{"21", false},
		{"3600", false},
	}

	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			if got := IsTimerCommand(tt.payload); got != tt.want {
				t.Errorf("IsTimerCommand(%q) = %v, want %v", tt.payload, got, tt.want)
			}
		})
	}
}
