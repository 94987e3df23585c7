package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventx/internal/helpers"
	"github.com/joshua-takyi/eventx/internal/models"
	"github.com/joshua-takyi/eventx/internal/services"
)

const identityKey = "identity"

// IdentityResolver turns a session token into the identity it names.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string, scope services.Scope) (*models.Identity, error)
}

// ProtectAdmin admits only callers whose token resolves in the admin store.
func ProtectAdmin(resolver IdentityResolver, logger *slog.Logger) gin.HandlerFunc {
	return protect(resolver, services.ScopeAdmin, logger)
}

// ProtectUser admits only callers whose token resolves in the user store.
func ProtectUser(resolver IdentityResolver, logger *slog.Logger) gin.HandlerFunc {
	return protect(resolver, services.ScopeUser, logger)
}

// ProtectAny resolves the caller against the store named by the token's role.
func ProtectAny(resolver IdentityResolver, logger *slog.Logger) gin.HandlerFunc {
	return protect(resolver, services.ScopeAny, logger)
}

func protect(resolver IdentityResolver, scope services.Scope, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse("Not authorized, no token"))
			return
		}

		identity, err := resolver.Resolve(c.Request.Context(), token, scope)
		if err != nil {
			if !errors.Is(err, models.ErrUnauthorized) {
				// store failure, not a bad token
				_ = c.Error(err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse("Server error"))
				return
			}
			logger.Debug("Rejected token", "path", c.Request.URL.Path, "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse("Not authorized, token failed"))
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// TokenFromRequest reads the session token from the jwt cookie, falling
// back to an Authorization: Bearer header.
func TokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(helpers.CookieName); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func CurrentIdentity(c *gin.Context) (*models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*models.Identity)
	return identity, ok && identity != nil
}
