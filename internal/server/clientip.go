package server

import (
	"fmt"
	"net"
	nethttp "net/http"
	"net/netip"
	"strings"
)

// clientIPResolver finds the visitor address behind a chain of trusted
// reverse proxies. Forwarding headers from any other peer are ignored.
type clientIPResolver struct {
	trusted []netip.Prefix
}

// newClientIPResolver accepts bare addresses and CIDR prefixes.
func newClientIPResolver(proxies []string) (*clientIPResolver, error) {
	r := &clientIPResolver{trusted: make([]netip.Prefix, 0, len(proxies))}
	for _, raw := range proxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, "/") {
			prefix, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", raw, err)
			}
			r.trusted = append(r.trusted, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", raw, err)
		}
		addr = addr.Unmap()
		r.trusted = append(r.trusted, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return r, nil
}

func (c *clientIPResolver) isTrusted(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range c.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP returns the peer address unless the peer is a trusted proxy. Then
// X-Forwarded-For is walked from the nearest hop outwards and the first
// untrusted hop wins; X-Real-IP is the fallback.
func (c *clientIPResolver) ClientIP(r *nethttp.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	peer, err := netip.ParseAddr(host)
	if err != nil || !c.isTrusted(peer) {
		return host
	}

	hops := strings.Split(strings.Join(r.Header.Values("X-Forwarded-For"), ","), ",")
	var outermost string
	for i := len(hops) - 1; i >= 0; i-- {
		hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			break
		}
		if !c.isTrusted(hop) {
			return hop.Unmap().String()
		}
		outermost = hop.Unmap().String()
	}
	if outermost != "" {
		return outermost
	}

	if realIP, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return realIP.Unmap().String()
	}
	return host
}
