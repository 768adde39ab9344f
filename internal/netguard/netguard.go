// Package netguard gates visitor check-in behind a CIDR allow-list, so the
// kiosk endpoints only work from inside the co-working space's network.
package netguard

import (
	"fmt"
	"net/netip"
)

type Guard struct {
	prefixes []netip.Prefix
}

func New(cidrs []string) (*Guard, error) {
	prefixes := make([]netip.Prefix, 0, len(cidrs))
	for _, cidr := range cidrs {
		prefix, err := netip.ParsePrefix(cidr)
		if err != nil {
			return nil, fmt.Errorf("netguard: parse %q: %w", cidr, err)
		}
		prefixes = append(prefixes, prefix)
	}

	return &Guard{prefixes: prefixes}, nil
}

// Allowed reports whether ip falls inside any allowed network. An unparsable
// address is an error, not a denial.
func (g *Guard) Allowed(ip string) (bool, error) {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false, fmt.Errorf("netguard: parse address %q: %w", ip, err)
	}

	for _, prefix := range g.prefixes {
		if prefix.Contains(addr) {
			return true, nil
		}
	}

	return false, nil
}
