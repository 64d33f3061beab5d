// internal/middleware/auth.go
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"parkgov-crm/config"
	"parkgov-crm/internal/authz"
	"parkgov-crm/models"
)

const actorKey = "actor"

// UserSource resolves a token subject to a portal account.
type UserSource interface {
	UserByID(ctx context.Context, id uint) (*models.User, error)
}

// cachedActor is the redis representation of a resolved account.
type cachedActor struct {
	UserID   uint   `json:"user_id"`
	Login    string `json:"login"`
	Role     string `json:"role"`
	ParkName string `json:"park_name"`
}

// AuthMiddleware verifies the bearer/cookie token and resolves the caller to
// an explicit Actor for the handlers. Token issuance happens elsewhere; this
// only verifies. Resolved accounts are cached in redis for 10 minutes when a
// client is configured.
func AuthMiddleware(secret []byte, users UserSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie("auth_token")
		if err != nil || tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				abortUnauthorized(c, "authorization token not provided")
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				abortUnauthorized(c, "invalid Authorization header format")
				return
			}
			tokenStr = parts[1]
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "invalid token claims")
			return
		}
		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			abortUnauthorized(c, "invalid user id in token")
			return
		}
		userID := uint(userIDFloat)

		cacheKey := fmt.Sprintf("user:%d:data", userID)
		if config.RDB != nil {
			cached, err := config.RDB.Get(c.Request.Context(), cacheKey).Result()
			if err == nil {
				var ca cachedActor
				if json.Unmarshal([]byte(cached), &ca) == nil {
					if role, err := authz.ParseRole(ca.Role); err == nil {
						setActorAndProceed(c, authz.Actor{
							UserID: ca.UserID, Login: ca.Login, Role: role, ParkName: ca.ParkName,
						})
						return
					}
				}
				slog.Warn("discarding malformed cached account", "user_id", userID)
			} else if err != redis.Nil {
				slog.Error("redis GET failed", "error", err, "user_id", userID)
			}
		}

		user, err := users.UserByID(c.Request.Context(), userID)
		if err != nil {
			abortUnauthorized(c, "account from token not found")
			return
		}
		role, err := authz.ParseRole(string(user.Role))
		if err != nil {
			slog.Error("account has unknown role", "user_id", userID, "role", user.Role)
			abortUnauthorized(c, "account role not recognised")
			return
		}

		if config.RDB != nil {
			data, err := json.Marshal(cachedActor{
				UserID: user.ID, Login: user.Login, Role: string(role), ParkName: user.ParkName,
			})
			if err == nil {
				if err := config.RDB.Set(c.Request.Context(), cacheKey, data, 10*time.Minute).Err(); err != nil {
					slog.Error("failed to cache account", "error", err, "user_id", userID)
				}
			}
		}

		setActorAndProceed(c, authz.Actor{
			UserID: user.ID, Login: user.Login, Role: role, ParkName: user.ParkName,
		})
	}
}

func setActorAndProceed(c *gin.Context, actor authz.Actor) {
	c.Set(actorKey, actor)
	c.Next()
}

// Actor returns the authenticated caller placed in the context by
// AuthMiddleware.
func Actor(c *gin.Context) (authz.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return authz.Actor{}, false
	}
	actor, ok := v.(authz.Actor)
	return actor, ok
}

// WithActor injects a fixed actor, standing in for AuthMiddleware in tests.
func WithActor(actor authz.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		setActorAndProceed(c, actor)
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": message})
	c.Abort()
}
