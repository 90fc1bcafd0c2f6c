package middlewares

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/adilakhmetov/notify-relay/internal/api/respond"
	"github.com/adilakhmetov/notify-relay/internal/metrics"
)

const tokenScheme = "token "

// Auth guards producer-facing endpoints. Loopback callers pass
// unconditionally; everyone else must present the shared secret via an
// "Authorization: token <T>" header or a ?token= query parameter. The
// guard runs before any payload parsing.
func Auth(secret string) func(c *ginext.Context) {
	return func(c *ginext.Context) {
		if isLoopback(c.Request.RemoteAddr) {
			c.Next()
			return
		}

		token := requestToken(c)
		if secret == "" || token != secret {
			zlog.Logger.Warn().
				Str("remote", c.Request.RemoteAddr).
				Msg("rejected unauthorized ingest")
			metrics.Rejected.Inc()
			respond.Fail(c.Writer, http.StatusUnauthorized, fmt.Errorf("missing or invalid token"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// requestToken extracts the caller's token from the Authorization
// header, falling back to the token query parameter.
func requestToken(c *ginext.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(auth), tokenScheme) {
		return strings.TrimSpace(auth[len(tokenScheme):])
	}

	return c.Query("token")
}

// isLoopback judges the bypass from the socket address only. Forwarded
// headers are client-controlled and must not grant the exemption.
func isLoopback(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}

	ip := net.ParseIP(host)

	return ip != nil && ip.IsLoopback()
}
