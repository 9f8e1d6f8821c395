package discovery

import (
	"fmt"
	"strings"
	"time"
)

// Speaker represents a Libratone speaker found on the network
type Speaker struct {
	// Name is the advertised instance name (e.g., "Kitchen Zipp")
	Name string

	// Hostname is the mDNS hostname (e.g., "Libratone-Zipp-1A2B.local.")
	Hostname string

	// IP is the IPv4 address (e.g., "192.168.1.20")
	IP string

	// Model is taken from the TXT record when present
	Model string

	// Metadata contains the raw mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the speaker was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the speaker
func (s *Speaker) String() string {
	if s.Model != "" {
		return fmt.Sprintf("%s (%s) at %s", s.Name, s.Model, s.IP)
	}
	return fmt.Sprintf("%s at %s", s.Name, s.IP)
}

// Matches reports whether ref names this speaker by IP, instance name or hostname.
func (s *Speaker) Matches(ref string) bool {
	if ref == s.IP {
		return true
	}
	return strings.EqualFold(ref, s.Name) ||
		strings.EqualFold(strings.TrimSuffix(ref, "."), strings.TrimSuffix(s.Hostname, "."))
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (s *Speaker) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}
