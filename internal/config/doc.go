// Package config provides user configuration management for zipp.
//
// This package manages a YAML-based configuration file that remembers
// speakers between runs (nickname, reported name and serial) and holds
// application preferences. The configuration follows OS-specific conventions
// for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/zipp/config.yaml or $HOME/.config/zipp/config.yaml
//   - macOS: $HOME/.config/zipp/config.yaml
//   - Windows: %LOCALAPPDATA%\zipp\config.yaml
//
// # Preferences
//
// Preferences project onto the runtime configuration of the other packages:
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	h, err := hub.New(registry.Preferences.HubConfig())
//	...
//	host := registry.ResolveSpeaker("kitchen")
//	s, err := zipp.New(ctx, registry.Preferences.SessionConfig(host), h)
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
