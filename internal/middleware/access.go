package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/solvento/hrcore/internal/access"
	apperrors "github.com/solvento/hrcore/pkg/errors"
	"github.com/solvento/hrcore/pkg/logger"
	"github.com/solvento/hrcore/pkg/metrics"
	"github.com/solvento/hrcore/pkg/response"
)

// accessAllowList names the paths that never require a grant: authentication,
// health and observability surfaces.
var accessAllowList = []string{
	"/api/auth/login",
	"/health",
	"/metrics",
	"/docs",
}

func bypassed(path string) bool {
	for _, prefix := range accessAllowList {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// RequireAccess resolves the caller's grant for the request path and method,
// denying with endpoint context when no grant allows it. Grants apply to
// administrators too; there is no role short-circuit.
func RequireAccess(resolver *access.Resolver) gin.HandlerFunc {
	log := logger.WithModule("access_middleware")

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		if bypassed(path) {
			metrics.AccessDecisions.WithLabelValues(method, "bypass").Inc()
			c.Next()
			return
		}

		userID, ok := CurrentUserID(c)
		if !ok {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		decision := resolver.Resolve(c.Request.Context(), userID, path, method)
		if !decision.Allowed {
			metrics.AccessDecisions.WithLabelValues(method, "deny").Inc()
			log.Info("access denied",
				zap.Uint("user_id", userID),
				zap.String("endpoint", decision.Endpoint),
				zap.String("method", method),
				zap.String("source", string(decision.Source)),
			)
			response.Error(c, apperrors.New(
				"FORBIDDEN",
				"no permission for "+method+" "+decision.Endpoint,
				apperrors.ErrForbidden.StatusCode,
			))
			c.Abort()
			return
		}

		metrics.AccessDecisions.WithLabelValues(method, "allow").Inc()
		c.Next()
	}
}
