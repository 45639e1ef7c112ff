package httpapi

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taskvault/taskvault/internal/common"
	"github.com/taskvault/taskvault/internal/server/auth"
)

// accountIDKey is the gin context key under which the middleware stores the
// verified subject. Handlers read it through accountID only.
const accountIDKey = "accountID"

// RequireAuth rejects requests that do not carry a valid access token in the
// Authorization header. It keeps no per-request state, so it is safe under
// arbitrary concurrency. The verified subject is the only identity handlers
// ever see; nothing from the request body can override it.
func RequireAuth(tokens *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			writeError(c, common.ErrTokenMissing)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			writeError(c, common.ErrTokenInvalid)
			return
		}

		identity, err := tokens.Verify(parts[1], auth.KindAccess)
		if err != nil {
			writeError(c, err)
			return
		}

		c.Set(accountIDKey, identity.AccountID)
		c.Next()
	}
}

// accountID returns the subject stored by RequireAuth. It is only called on
// routes behind the middleware, so a missing value is a programming error.
func accountID(c *gin.Context) string {
	return c.GetString(accountIDKey)
}
