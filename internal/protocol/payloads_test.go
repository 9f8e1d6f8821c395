package protocol

import (
	"testing"
	"time"
)

func TestDecodeTimer(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		want   Timer
		wantOK bool
	}{
		{"empty", nil, Timer{}, true},
		{"none sentinel", []byte{0xff}, Timer{}, true},
		{"active 300s", []byte{0x32, 0x2c, 0x01}, Timer{Active: true, Remaining: 300 * time.Second}, true},
		{"active max", []byte{0x32, 0xff, 0xff}, Timer{Active: true, Remaining: 65535 * time.Second}, true},
		{"active truncated", []byte{0x32, 0x2c}, Timer{}, false},
		{"none with trailing bytes", []byte{0xff, 0x00}, Timer{}, false},
		{"unknown sentinel", []byte{0x10, 0x00, 0x00}, Timer{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DecodeTimer(tt.data)
			if ok != tt.wantOK {
				t.Fatalf("DecodeTimer() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("DecodeTimer() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseGroup(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantStatus GroupStatus
		wantRole   GroupRole
		wantLink   string
	}{
		{"ungroup", "UNGROUP", GroupStatusUngrouped, GroupRoleNone, ""},
		{"master", "MASTER,LINK abc123", GroupStatusGrouped, GroupRoleMaster, "abc123"},
		{"slave", "SLAVE,LINK 42", GroupStatusGrouped, GroupRoleSlave, "42"},
		{"stray leading byte", "\x01MASTER,LINK Ab12", GroupStatusGrouped, GroupRoleMaster, "Ab12"},
		{"stray leading byte ungroup", "#UNGROUP", GroupStatusUngrouped, GroupRoleNone, ""},
		{"lowercase", "slave,link x", GroupStatusGrouped, GroupRoleSlave, "x"},
		{"unknown role", "LEADER,LINK 1", GroupStatusUnknown, GroupRoleNone, ""},
		{"missing link", "MASTER,", GroupStatusUnknown, GroupRoleNone, ""},
		{"garbage", "hello", GroupStatusUnknown, GroupRoleNone, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseGroup(tt.text)
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", got.Status, tt.wantStatus)
			}
			if got.Role != tt.wantRole {
				t.Errorf("Role = %v, want %v", got.Role, tt.wantRole)
			}
			if got.Link != tt.wantLink {
				t.Errorf("Link = %q, want %q", got.Link, tt.wantLink)
			}
			if got.Raw != tt.text {
				t.Errorf("Raw = %q, want %q", got.Raw, tt.text)
			}
		})
	}
}

func TestFormatGroupJoin(t *testing.T) {
	if got := FormatGroupJoin(GroupRoleSlave, "abc"); got != "SLAVE,LINK abc" {
		t.Errorf("FormatGroupJoin() = %q", got)
	}
	if got := ParseGroup(FormatGroupJoin(GroupRoleMaster, "Z9")); got.Link != "Z9" || got.Role != GroupRoleMaster {
		t.Errorf("join payload does not parse back: %+v", got)
	}
}

func TestParsePresets(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantLen int
		wantErr bool
	}{
		{"two entries", `[{"name":"Neutral","id":"V100","description":"d"},{"name":"Jazz","id":"V104"}]`, 2, false},
		{"empty list", `[]`, 0, false},
		{"not json", `V100`, 0, true},
		{"object instead of array", `{"id":"V100"}`, 0, true},
		{"entry without id", `[{"name":"Neutral","id":"V100"},{"name":"Broken"}]`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePresets([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePresets() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if got != nil {
					t.Errorf("ParsePresets() = %v on error, want nil", got)
				}
				return
			}
			if len(got) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestParsePlayer(t *testing.T) {
	p, err := ParsePlayer([]byte(`{"isFromChannel":true,"play_identity":"7","play_subtitle":"News","play_title":"Radio 4","play_type":"vtuner","token":"t"}`))
	if err != nil {
		t.Fatalf("ParsePlayer() error = %v", err)
	}
	want := PlayerInfo{IsFromChannel: true, Identity: "7", Subtitle: "News", Title: "Radio 4", Type: "vtuner", Token: "t"}
	if *p != want {
		t.Errorf("ParsePlayer() = %+v, want %+v", *p, want)
	}

	if p, err := ParsePlayer([]byte(`{"play_title":`)); err == nil || p != nil {
		t.Errorf("ParsePlayer(truncated) = %v, %v; want nil, error", p, err)
	}
}

func TestParseChannels(t *testing.T) {
	got, err := ParseChannels([]byte(`[` + Favorites[1] + `,` + Favorites[2] + `]`))
	if err != nil {
		t.Fatalf("ParseChannels() error = %v", err)
	}
	if len(got) != 2 || got[1].Identity != "2" {
		t.Errorf("ParseChannels() = %+v", got)
	}

	got, err = ParseChannels([]byte(`null`))
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("ParseChannels(null) = %v, %v; want empty, nil", got, err)
	}

	if _, err := ParseChannels([]byte(`[1,2]`)); err == nil {
		t.Error("ParseChannels(numbers): expected error")
	}
}
