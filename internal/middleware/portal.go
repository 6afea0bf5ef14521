package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mirado/clinic-console-api/internal/models"
	"github.com/mirado/clinic-console-api/internal/store"
)

const portalAccountKey = "portalAccount"

// PortalAuth gates the portal routes. The token is the bare email string the
// client cached at login; it carries no cryptographic proof of identity and
// is re-verified against the account's status on every request.
func PortalAuth(accounts store.AccountStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.TrimSpace(c.GetHeader("X-Portal-Email"))
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Portal session required"})
			return
		}

		acc, err := accounts.GetByEmail(c.Request.Context(), email)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No account found for this email"})
			return
		}
		if acc.Status != models.StatusApproved {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": fmt.Sprintf("Access denied: your account status is %s", acc.Status),
			})
			return
		}

		c.Set(portalAccountKey, acc)
		c.Next()
	}
}

// PortalAccountFromContext fetches the account set by PortalAuth.
func PortalAccountFromContext(c *gin.Context) (models.Account, bool) {
	val, ok := c.Get(portalAccountKey)
	if !ok {
		return models.Account{}, false
	}
	acc, ok := val.(models.Account)
	return acc, ok
}
