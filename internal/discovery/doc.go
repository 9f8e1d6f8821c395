// Package discovery finds Libratone speakers on the local network via mDNS.
//
// The LUCI control protocol has no discovery of its own. Zipp speakers do
// advertise AirPlay, so this package browses "_airplay._tcp" and keeps the
// entries whose instance name, hostname or TXT record mentions Libratone or
// Zipp. The result is a hint: any IPv4 address can be used with a session
// whether or not it was discovered.
//
// # Usage Example
//
//	speakers, err := discovery.Scan(ctx, 5*time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, s := range speakers {
//	    fmt.Printf("Found: %s\n", s)
//	}
package discovery
