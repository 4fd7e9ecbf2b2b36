package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"khmerdownload-api/internal/config"
	"khmerdownload-api/internal/models"
	"khmerdownload-api/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by the auth middleware
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextRole     = "role"
)

// AuthRequired rejects requests without a valid bearer token
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseToken(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, response.Error("Invalid or missing token"))
			c.Abort()
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}

// AdminRequired rejects requests unless the token carries the admin role
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseToken(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, response.Error("Invalid or missing token"))
			c.Abort()
			return
		}
		if role, _ := claims["role"].(string); role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, response.Error("Admin access required"))
			c.Abort()
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}

// AuthOptional parses a token when present but never rejects. Handlers that
// behave differently for signed-in users (feedback contact visibility, user
// attribution on checkout) read the context keys it sets.
func AuthOptional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := parseToken(c); err == nil {
			setIdentity(c, claims)
		}
		c.Next()
	}
}

// IsAdmin reports whether the current request carries the admin role
func IsAdmin(c *gin.Context) bool {
	role, _ := c.Get(ContextRole)
	return role == models.RoleAdmin
}

// UserID returns the authenticated user id, or nil for anonymous callers
func UserID(c *gin.Context) *uint {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return nil
	}
	id, ok := v.(uint)
	if !ok {
		return nil
	}
	return &id
}

func parseToken(c *gin.Context) (jwt.MapClaims, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, fmt.Errorf("missing authorization header")
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func setIdentity(c *gin.Context, claims jwt.MapClaims) {
	if id, ok := claims["id"].(float64); ok {
		c.Set(ContextUserID, uint(id))
	}
	if username, ok := claims["username"].(string); ok {
		c.Set(ContextUsername, username)
	}
	if role, ok := claims["role"].(string); ok {
		c.Set(ContextRole, role)
	}
}
