package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/zipp/internal/logging"
)

const (
	// ServiceType is the mDNS service type browsed by default.
	// Zipp speakers advertise AirPlay; the LUCI protocol itself has no mDNS record.
	ServiceType = "_airplay._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for speaker discovery
	DefaultScanTimeout = 5 * time.Second
)

// vendorMarkers identify Libratone speakers in instance names, hostnames
// and TXT values
var vendorMarkers = []string{"libratone", "zipp"}

// Scanner handles mDNS speaker discovery
type Scanner struct {
	// Timeout is the maximum time to wait for speaker discovery
	Timeout time.Duration

	// ServiceType overrides the browsed service (e.g. "_raop._tcp")
	ServiceType string
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout:     DefaultScanTimeout,
		ServiceType: ServiceType,
	}
}

// Scan discovers Libratone speakers on the local network until the
// timeout expires or ctx is cancelled. Speakers are de-duplicated by IP.
func (s *Scanner) Scan(ctx context.Context) ([]*Speaker, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	done := make(chan struct{})

	var mu sync.Mutex
	seen := make(map[string]*Speaker)
	var speakers []*Speaker

	go func() {
		defer close(done)
		for entry := range entries {
			speaker := parseServiceEntry(entry)
			if speaker == nil {
				continue
			}
			mu.Lock()
			if _, dup := seen[speaker.IP]; !dup {
				seen[speaker.IP] = speaker
				speakers = append(speakers, speaker)
				logging.Debug("Speaker discovered", zap.String("name", speaker.Name), zap.String("ip", speaker.IP))
			}
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, s.serviceType(), ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	// The resolver closes entries once it notices the cancellation
	select {
	case <-done:
	case <-time.After(time.Second):
	}

	mu.Lock()
	defer mu.Unlock()
	return append([]*Speaker(nil), speakers...), nil
}

// Find waits for a speaker whose name or IP matches ref.
func (s *Scanner) Find(ctx context.Context, ref string) (*Speaker, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(chan *Speaker, 1)

	go func() {
		for entry := range entries {
			speaker := parseServiceEntry(entry)
			if speaker != nil && speaker.Matches(ref) {
				select {
				case found <- speaker:
				default:
				}
				cancel()
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, s.serviceType(), ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case speaker := <-found:
		return speaker, nil
	case <-ctx.Done():
		select {
		case speaker := <-found:
			return speaker, nil
		default:
		}
		return nil, fmt.Errorf("speaker %q not found within %s", ref, s.Timeout)
	}
}

func (s *Scanner) serviceType() string {
	if s.ServiceType == "" {
		return ServiceType
	}
	return s.ServiceType
}

// parseServiceEntry converts a zeroconf service entry to a Speaker.
// Returns nil if the entry is not a Libratone speaker or has no IPv4 address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Speaker {
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	if !isLibratone(entry, metadata) {
		return nil
	}

	// The LUCI protocol is IPv4 only
	if len(entry.AddrIPv4) == 0 {
		return nil
	}

	name := entry.Instance
	if name == "" {
		name = strings.TrimSuffix(strings.TrimSuffix(entry.HostName, "."), ".local")
	}

	return &Speaker{
		Name:         unescapeInstance(name),
		Hostname:     entry.HostName,
		IP:           entry.AddrIPv4[0].String(),
		Model:        metadata["model"],
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

func isLibratone(entry *zeroconf.ServiceEntry, metadata map[string]string) bool {
	candidates := []string{entry.Instance, entry.HostName, metadata["manufacturer"], metadata["model"], metadata["am"]}
	for _, c := range candidates {
		lc := strings.ToLower(c)
		for _, marker := range vendorMarkers {
			if strings.Contains(lc, marker) {
				return true
			}
		}
	}
	return false
}

// unescapeInstance removes DNS-SD escaping from instance names
func unescapeInstance(name string) string {
	return strings.ReplaceAll(name, `\ `, " ")
}

// Scan is a convenience function to scan for speakers with a custom timeout
func Scan(ctx context.Context, timeout time.Duration) ([]*Speaker, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.Scan(ctx)
}
