package api

import (
	"net"
	"strings"

	"estate/internal/errors"

	"github.com/labstack/echo/v4"
)

// newIPExtractor picks how c.RealIP() resolves the client address.
// With no trusted proxies the TCP peer is used and forwarding headers are ignored.
// Otherwise X-Forwarded-For is walked from the right, skipping only the listed ranges.
func newIPExtractor(trustedProxies []string) (echo.IPExtractor, error) {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect(), nil
	}

	options := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, raw := range trustedProxies {
		ipRange, err := parseProxyRange(raw)
		if err != nil {
			return nil, err
		}
		options = append(options, echo.TrustIPRange(ipRange))
	}

	return echo.ExtractIPFromXFFHeader(options...), nil
}

// parseProxyRange accepts a CIDR or a single address.
func parseProxyRange(raw string) (*net.IPNet, error) {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, "/") {
		_, ipRange, err := net.ParseCIDR(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid trusted proxy %q", raw)
		}

		return ipRange, nil
	}

	ip := net.ParseIP(raw)
	if ip == nil {
		return nil, errors.Errorf("invalid trusted proxy %q", raw)
	}
	bits := 8 * net.IPv6len
	if v4 := ip.To4(); v4 != nil {
		ip, bits = v4, 8*net.IPv4len
	}

	return &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}, nil
}
