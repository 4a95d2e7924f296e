package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"vehiclecare/models"
	"vehiclecare/services/booking"
	"vehiclecare/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const principalKey = "principal"

// PrincipalResolver loads the directory entry behind a verified token.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, id string, role models.Role) (*models.Principal, error)
}

// JWTAuthMiddleware verifies the bearer token and resolves its principal. Verified
// principals are cached in redis under the token hash; cache may be nil.
// Browsers cannot set headers on a WebSocket handshake, so ?token= is accepted too.
func JWTAuthMiddleware(resolver PrincipalResolver, cache *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}

		claims, err := utils.ExtractClaims(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		ctx := c.Request.Context()
		cacheKey := utils.AuthCachePrefix + claims.Subject + ":" + utils.HashToken(tokenString)
		if cache != nil {
			cached, err := cache.Get(ctx, cacheKey).Result()
			if err == nil {
				var p models.Principal
				if json.Unmarshal([]byte(cached), &p) == nil {
					c.Set(principalKey, p)
					c.Next()
					return
				}
			} else if !errors.Is(err, redis.Nil) {
				zap.L().Warn("auth cache unavailable, falling back to directory", zap.Error(err))
			}
		}

		p, err := resolver.ResolvePrincipal(ctx, claims.Subject, claims.Role)
		if err != nil {
			if errors.Is(err, booking.ErrStoreUnavailable) {
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Authentication temporarily unavailable"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication error"})
			return
		}

		if cache != nil {
			if b, err := json.Marshal(p); err == nil {
				_ = cache.Set(ctx, cacheKey, b, utils.AuthCacheTTL).Err()
			}
		}
		c.Set(principalKey, *p)
		c.Next()
	}
}

// InvalidatePrincipal drops every cached token of a principal, e.g. after the
// account was deleted.
func InvalidatePrincipal(ctx context.Context, cache *redis.Client, principalID string) error {
	if cache == nil {
		return nil
	}
	iter := cache.Scan(ctx, 0, utils.AuthCachePrefix+principalID+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := cache.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return c.Query("token")
}

// RequireRole rejects principals whose role is not listed.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied for role " + string(p.Role)})
	}
}

// GetPrincipal returns the principal set by JWTAuthMiddleware.
func GetPrincipal(c *gin.Context) (models.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return models.Principal{}, false
	}
	p, ok := v.(models.Principal)
	return p, ok
}

// SetPrincipal places a principal on the context; used by tests and internal routes.
func SetPrincipal(c *gin.Context, p models.Principal) {
	c.Set(principalKey, p)
}
