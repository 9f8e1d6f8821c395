package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	if filepath.Base(configDir) != "zipp" {
		t.Errorf("GetConfigDir() = %v, should end in 'zipp'", configDir)
	}

	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	}
}

func TestGetConfigDirXDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if want := filepath.Join(dir, "zipp"); got != want {
		t.Errorf("GetConfigDir() = %v, want %v", got, want)
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}

	if reg.Speakers == nil {
		t.Error("NewRegistry().Speakers should not be nil")
	}

	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences should not be nil")
	}

	if reg.Preferences.KeepAliveSeconds != 45 {
		t.Errorf("KeepAliveSeconds = %v, want 45", reg.Preferences.KeepAliveSeconds)
	}

	if reg.Preferences.ProbePort != 80 {
		t.Errorf("ProbePort = %v, want 80", reg.Preferences.ProbePort)
	}
}

func TestRegistryEnsureSpeaker(t *testing.T) {
	reg := NewRegistry()

	s1 := reg.EnsureSpeaker("192.168.1.20")
	if s1 == nil {
		t.Fatal("EnsureSpeaker() returned nil")
	}

	if s2 := reg.EnsureSpeaker("192.168.1.20"); s1 != s2 {
		t.Error("EnsureSpeaker() should return same instance for same host")
	}

	if s3 := reg.EnsureSpeaker("192.168.1.21"); s1 == s3 {
		t.Error("EnsureSpeaker() should create new instance for different host")
	}
}

func TestRegistryUpdateSpeakerSeen(t *testing.T) {
	reg := NewRegistry()

	before := time.Now()
	reg.UpdateSpeakerSeen("192.168.1.20", "Kitchen", "ZP0001")
	after := time.Now()

	speaker := reg.GetSpeaker("192.168.1.20")
	if speaker == nil {
		t.Fatal("Speaker should exist after UpdateSpeakerSeen()")
	}

	if speaker.Name != "Kitchen" || speaker.Serial != "ZP0001" {
		t.Errorf("speaker = %+v, want name Kitchen serial ZP0001", speaker)
	}

	if speaker.LastSeen.Before(before) || speaker.LastSeen.After(after) {
		t.Errorf("LastSeen = %v, should be between %v and %v", speaker.LastSeen, before, after)
	}

	// Empty values keep what we had
	reg.UpdateSpeakerSeen("192.168.1.20", "", "")
	if speaker.Name != "Kitchen" || speaker.Serial != "ZP0001" {
		t.Errorf("empty update overwrote speaker: %+v", speaker)
	}
}

func TestResolveSpeaker(t *testing.T) {
	reg := NewRegistry()
	reg.SetSpeakerNickname("192.168.1.20", "kitchen")
	reg.UpdateSpeakerSeen("192.168.1.21", "Living Room", "")
	reg.Preferences.DefaultSpeaker = "kitchen"

	tests := []struct {
		ref  string
		want string
	}{
		{"192.168.1.20", "192.168.1.20"},
		{"Kitchen", "192.168.1.20"},
		{"living room", "192.168.1.21"},
		{"", "192.168.1.20"},
		{"10.0.0.9", "10.0.0.9"},
		{"zipp.local", "zipp.local"},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			if got := reg.ResolveSpeaker(tt.ref); got != tt.want {
				t.Errorf("ResolveSpeaker(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestPreferencesProjections(t *testing.T) {
	prefs := &Preferences{
		KeepAliveSeconds:  10,
		ProbePort:         8080,
		ProbeTimeoutMs:    500,
		Workers:           8,
		QueueDepth:        32,
		ListenAddr:        "192.168.1.5",
		LogUnknownOpcodes: true,
	}

	hc := prefs.HubConfig()
	if hc.Workers != 8 || hc.QueueDepth != 32 || hc.ListenAddr != "192.168.1.5" {
		t.Errorf("HubConfig() = %+v", hc)
	}
	if hc.NotifyPort != 3333 || hc.ResultPort != 7778 || hc.ControlPort != 7777 || hc.AckPort != 3334 {
		t.Errorf("HubConfig() ports = %+v, want protocol defaults", hc)
	}

	sc := prefs.SessionConfig("192.168.1.20")
	if sc.Host != "192.168.1.20" {
		t.Errorf("SessionConfig().Host = %q", sc.Host)
	}
	if sc.KeepAliveInterval != 10*time.Second || sc.ProbePort != 8080 || sc.ProbeTimeout != 500*time.Millisecond || !sc.LogUnknown {
		t.Errorf("SessionConfig() = %+v", sc)
	}

	// Zero values fall back to defaults
	empty := (&Preferences{}).SessionConfig("h")
	if empty.KeepAliveInterval != 45*time.Second || empty.ProbePort != 80 {
		t.Errorf("SessionConfig() defaults = %+v", empty)
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	reg := NewRegistry()
	reg.SetSpeakerNickname("192.168.1.20", "kitchen")
	reg.UpdateSpeakerSeen("192.168.1.20", "Kitchen Zipp", "ZP0001")
	reg.Preferences.Workers = 2

	if err := reg.SaveFile(path); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}

	loaded, err := LoadRegistryFile(path)
	if err != nil {
		t.Fatalf("LoadRegistryFile() error = %v", err)
	}

	speaker := loaded.GetSpeaker("192.168.1.20")
	if speaker == nil {
		t.Fatal("Speaker should exist in loaded registry")
	}
	if speaker.Nickname != "kitchen" || speaker.Name != "Kitchen Zipp" || speaker.Serial != "ZP0001" {
		t.Errorf("loaded speaker = %+v", speaker)
	}
	if loaded.Preferences.Workers != 2 {
		t.Errorf("loaded Workers = %d, want 2", loaded.Preferences.Workers)
	}
}

func TestLoadRegistryFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
		check   func(t *testing.T, reg *Registry)
	}{
		{
			name: "partial preferences keep defaults",
			content: `version: 1
preferences:
  workers: 6
`,
			check: func(t *testing.T, reg *Registry) {
				if reg.Preferences.Workers != 6 {
					t.Errorf("Workers = %d, want 6", reg.Preferences.Workers)
				}
				if reg.Preferences.KeepAliveSeconds != 45 {
					t.Errorf("KeepAliveSeconds = %d, want default 45", reg.Preferences.KeepAliveSeconds)
				}
				if reg.Speakers == nil {
					t.Error("Speakers should be initialised")
				}
			},
		},
		{
			name:    "unsupported version",
			content: "version: 2\n",
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			content: "version: [\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatalf("write: %v", err)
			}

			reg, err := LoadRegistryFile(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadRegistryFile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, reg)
			}
		})
	}
}

func TestLoadRegistryFileMissing(t *testing.T) {
	reg, err := LoadRegistryFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadRegistryFile() error = %v", err)
	}
	if reg.Version != 1 || reg.Preferences == nil {
		t.Errorf("missing file should give default registry, got %+v", reg)
	}
}

func BenchmarkEnsureSpeaker(b *testing.B) {
	reg := NewRegistry()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.EnsureSpeaker("192.168.1.20")
	}
}
