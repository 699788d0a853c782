package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIPExtractor(t *testing.T) {
	tests := []struct {
		name      string
		trusted   []string
		remote    string
		forwarded string
		want      string
	}{
		{"no proxies uses the peer", nil, "10.0.0.9:40000", "1.1.1.1", "10.0.0.9"},
		{"private peer is not trusted implicitly", []string{"192.0.2.10"}, "10.0.0.9:40000", "1.1.1.1", "10.0.0.9"},
		{"trusted cidr peer forwards the client", []string{"10.0.0.0/24"}, "10.0.0.9:40000", "203.0.113.7", "203.0.113.7"},
		{"single trusted address", []string{" 10.0.0.9 "}, "10.0.0.9:40000", "203.0.113.7", "203.0.113.7"},
		{"rightmost untrusted hop wins", []string{"10.0.0.0/24"}, "10.0.0.9:40000", "1.1.1.1, 203.0.113.7", "203.0.113.7"},
		{"ipv6 proxy", []string{"2001:db8::1"}, "[2001:db8::1]:40000", "203.0.113.7", "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extract, err := newIPExtractor(tt.trusted)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			req.Header.Set(echo.HeaderXForwardedFor, tt.forwarded)

			assert.Equal(t, tt.want, extract(req))
		})
	}
}

func TestNewIPExtractor_InvalidProxy(t *testing.T) {
	for _, raw := range []string{"10.0.0.0/33", "proxy.internal", ""} {
		_, err := newIPExtractor([]string{raw})
		assert.Error(t, err, raw)
	}
}
