package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuditLog records successful state-changing requests as structured log
// events on a dedicated "audit" logger. Reads are not audited.
func AuditLog(log zerolog.Logger) gin.HandlerFunc {
	audit := log.With().Str("component", "audit").Logger()
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}

		action, resource := mapRouteToAction(c.Request.Method, c.FullPath())
		if action == "" {
			return
		}

		event := audit.Info().
			Str("action", action).
			Str("resource", resource).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Str("client_ip", c.ClientIP())
		if op, ok := c.Get(CtxOperator); ok {
			event = event.Interface("operator", op)
		}
		if ak, ok := c.Get(CtxAccessKey); ok {
			event = event.Interface("access_key", ak)
		}
		event.Msg("audit")
	}
}

func mapRouteToAction(method, route string) (string, string) {
	switch {
	case method == http.MethodPost && route == "/internal/v1/deposits":
		return "deposit_ingest", "transaction"
	case method == http.MethodPost && route == "/internal/v1/referrals":
		return "referral_link", "referral"
	case method == http.MethodDelete && route == "/internal/v1/users/:id/positions/:currency":
		return "position_opt_out", "position"
	case method == http.MethodPost && route == "/internal/v1/maintenance/ticks":
		return "tick_trigger", "batch"
	case method == http.MethodPost && route == "/internal/v1/maintenance/reconcile":
		return "basis_reconcile", "position"
	}
	return "", ""
}
