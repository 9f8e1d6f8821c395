package config

import (
	"strings"
	"time"

	"github.com/muurk/zipp/internal/hub"
	"github.com/muurk/zipp/internal/zipp"
)

// Registry represents the entire user configuration file.
// This stores user-defined metadata for speakers and application preferences.
type Registry struct {
	Version     int                 `yaml:"version"`
	Speakers    map[string]*Speaker `yaml:"speakers,omitempty"` // Keyed by IP address
	Preferences *Preferences        `yaml:"preferences,omitempty"`
}

// Speaker represents what we remember about one speaker between runs.
type Speaker struct {
	Nickname string    `yaml:"nickname,omitempty"`  // User-chosen alias for --speaker
	Name     string    `yaml:"name,omitempty"`      // Name the speaker reported
	Serial   string    `yaml:"serial,omitempty"`    // Serial number the speaker reported
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last successful contact
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DefaultSpeaker    string `yaml:"default_speaker,omitempty"` // Host or nickname used when none is given
	KeepAliveSeconds  int    `yaml:"keep_alive_seconds"`        // Liveness probe period
	ProbePort         int    `yaml:"probe_port"`                // TCP port used for the liveness probe
	ProbeTimeoutMs    int    `yaml:"probe_timeout_ms"`
	Workers           int    `yaml:"workers"`     // Hub worker pool size
	QueueDepth        int    `yaml:"queue_depth"` // Hub queue depth before packets are dropped
	ListenAddr        string `yaml:"listen_addr,omitempty"`
	DiscoverTimeout   int    `yaml:"discover_timeout"` // mDNS scan timeout in seconds
	LogUnknownOpcodes bool   `yaml:"log_unknown_opcodes"`
}

func defaultPreferences() *Preferences {
	hc := hub.DefaultConfig()
	return &Preferences{
		KeepAliveSeconds: int(zipp.DefaultKeepAliveInterval / time.Second),
		ProbePort:        zipp.DefaultProbePort,
		ProbeTimeoutMs:   int(zipp.DefaultProbeTimeout / time.Millisecond),
		Workers:          hc.Workers,
		QueueDepth:       hc.QueueDepth,
		DiscoverTimeout:  5,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Speakers:    make(map[string]*Speaker),
		Preferences: defaultPreferences(),
	}
}

// HubConfig projects the preferences onto a hub configuration. Ports are
// fixed by the protocol and not configurable.
func (p *Preferences) HubConfig() hub.Config {
	cfg := hub.DefaultConfig()
	cfg.ListenAddr = p.ListenAddr
	if p.Workers > 0 {
		cfg.Workers = p.Workers
	}
	if p.QueueDepth > 0 {
		cfg.QueueDepth = p.QueueDepth
	}
	return cfg
}

// SessionConfig projects the preferences onto a session configuration for host.
func (p *Preferences) SessionConfig(host string) zipp.Config {
	cfg := zipp.DefaultConfig(host)
	if p.KeepAliveSeconds > 0 {
		cfg.KeepAliveInterval = time.Duration(p.KeepAliveSeconds) * time.Second
	}
	if p.ProbePort > 0 {
		cfg.ProbePort = p.ProbePort
	}
	if p.ProbeTimeoutMs > 0 {
		cfg.ProbeTimeout = time.Duration(p.ProbeTimeoutMs) * time.Millisecond
	}
	cfg.LogUnknown = p.LogUnknownOpcodes
	return cfg
}

// GetSpeaker retrieves speaker metadata by host.
// Returns nil if the speaker doesn't exist in the registry.
func (r *Registry) GetSpeaker(host string) *Speaker {
	return r.Speakers[host]
}

// EnsureSpeaker ensures a speaker entry exists in the registry.
// Returns the speaker entry (existing or newly created).
func (r *Registry) EnsureSpeaker(host string) *Speaker {
	if r.Speakers == nil {
		r.Speakers = make(map[string]*Speaker)
	}

	if speaker, exists := r.Speakers[host]; exists {
		return speaker
	}

	speaker := &Speaker{}
	r.Speakers[host] = speaker
	return speaker
}

// UpdateSpeakerSeen records a successful contact. Empty name or serial
// leave the stored values alone.
func (r *Registry) UpdateSpeakerSeen(host, name, serial string) {
	speaker := r.EnsureSpeaker(host)
	speaker.LastSeen = time.Now()
	if name != "" {
		speaker.Name = name
	}
	if serial != "" {
		speaker.Serial = serial
	}
}

// SetSpeakerNickname sets a user-friendly nickname for a speaker.
func (r *Registry) SetSpeakerNickname(host, nickname string) {
	speaker := r.EnsureSpeaker(host)
	speaker.Nickname = nickname
}

// ResolveSpeaker maps a nickname or reported name to a host. Anything that
// matches no entry is returned unchanged, on the assumption it is a host.
func (r *Registry) ResolveSpeaker(ref string) string {
	if ref == "" && r.Preferences != nil {
		ref = r.Preferences.DefaultSpeaker
	}
	if _, ok := r.Speakers[ref]; ok {
		return ref
	}
	for host, s := range r.Speakers {
		if s.Nickname != "" && strings.EqualFold(s.Nickname, ref) {
			return host
		}
	}
	for host, s := range r.Speakers {
		if s.Name != "" && strings.EqualFold(s.Name, ref) {
			return host
		}
	}
	return ref
}
