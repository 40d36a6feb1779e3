package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/seowalex/cvwo/internal/dto"

	"github.com/gin-gonic/gin"
)

const contextKeyIdentity = "identity"

// IdentityFromContext returns the identity set by RequireIdentity.
func IdentityFromContext(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(contextKeyIdentity)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// BearerToken extracts the credential from "Authorization: Bearer <token>".
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireIdentity returns a middleware that resolves the bearer credential
// and sets the Identity in context. If missing or invalid, responds with 401
// before any handler runs.
func RequireIdentity(resolver Resolver, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, "bearer token required")
			return
		}
		id, err := resolver.ResolveIdentity(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, ErrUnauthenticated) {
				abortUnauthorized(c, "invalid or expired token")
				return
			}
			log.ErrorContext(c.Request.Context(), "resolve identity", "err", err)
			c.Header("Content-Type", dto.MediaType)
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorDocument{
				Errors: []dto.ErrorObject{dto.NewError(http.StatusInternalServerError, "")},
			})
			return
		}
		c.Set(contextKeyIdentity, id)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", `Bearer realm="cvwo"`)
	c.Header("Content-Type", dto.MediaType)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorDocument{
		Errors: []dto.ErrorObject{dto.NewError(http.StatusUnauthorized, detail)},
	})
}
