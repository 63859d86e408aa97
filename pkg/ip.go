package pkg

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"regexp"
	"strings"
)

var (
	localDockerIpRegex = regexp.MustCompile(`^172\.\d{1,3}\.0\.1:\d{1,5}`)
)

func IPIsLocal(ipAddr string) bool {
	// used in local development ?
	if strings.HasPrefix(ipAddr, "127.0.0.1:") {
		return true
	}

	// user within docker container ?
	return localDockerIpRegex.MatchString(ipAddr)
}

// ParseTrustedProxies accepts CIDRs ("10.0.0.0/8") and bare addresses.
func ParseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy [%s]: %w", entry, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy [%s]: %w", entry, err)
		}
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

func ipTrusted(addr netip.Addr, trustedProxies []netip.Prefix) bool {
	addr = addr.Unmap()
	for _, prefix := range trustedProxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// ReadUserIP returns the client IP. X-Real-Ip and X-Forwarded-For are only
// honored when the direct peer is one of trustedProxies, clients set them
// freely otherwise.
func ReadUserIP(r *http.Request, trustedProxies []netip.Prefix) (string, error) {
	remoteHost := r.RemoteAddr
	if host, _, err := net.SplitHostPort(remoteHost); err == nil {
		remoteHost = host
	}
	remoteIP, remoteErr := netip.ParseAddr(remoteHost)

	if remoteErr == nil && ipTrusted(remoteIP, trustedProxies) {
		if realIP := strings.TrimSpace(r.Header.Get("X-Real-Ip")); realIP != "" {
			return validIP(realIP)
		}
		if clientIP := forwardedClient(r.Header.Get("X-Forwarded-For"), trustedProxies); clientIP != "" {
			return validIP(clientIP)
		}
	}

	if IPIsLocal(r.RemoteAddr) {
		return "localhost", nil
	}
	if remoteErr != nil {
		return "", fmt.Errorf("ip addr %s is invalid", remoteHost)
	}
	return remoteIP.String(), nil
}

// forwardedClient walks X-Forwarded-For from the nearest hop and returns the
// first address that is not a trusted proxy.
func forwardedClient(forwardedFor string, trustedProxies []netip.Prefix) string {
	if forwardedFor == "" {
		return ""
	}
	hops := strings.Split(forwardedFor, ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		addr, err := netip.ParseAddr(hop)
		if err != nil || !ipTrusted(addr, trustedProxies) {
			return hop
		}
	}
	return strings.TrimSpace(hops[0])
}

func validIP(ipAddr string) (string, error) {
	addr, err := netip.ParseAddr(ipAddr)
	if err != nil {
		return "", fmt.Errorf("ip addr %s is invalid", ipAddr)
	}
	return addr.String(), nil
}
