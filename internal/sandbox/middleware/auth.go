package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const maxAuthLen = 4096

// Token scopes.
const (
	ScopeUser  = "user"
	ScopeReset = "reset"
	ScopeAdmin = "admin"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// UserLookup reports whether a user id still exists.
type UserLookup func(id string) bool

func GenerateJWT(userID, secret string) (string, error) {
	return sign(userID, ScopeUser, secret, 365*24*time.Hour)
}

// GenerateResetJWT issues the short-lived token returned by OTP verification.
func GenerateResetJWT(userID, secret string) (string, error) {
	return sign(userID, ScopeReset, secret, 15*time.Minute)
}

func GenerateAdminJWT(adminID, secret string) (string, error) {
	return sign(adminID, ScopeAdmin, secret, 24*time.Hour)
}

func sign(subject, scope, secret string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  subject,
		"scope":    scope,
		"is_admin": scope == ScopeAdmin,
		"exp":      time.Now().Add(ttl).Unix(),
		"iat":      time.Now().Unix(),
	})
	return token.SignedString([]byte(secret))
}

// ParseToken validates an HS256 token and returns its subject and scope.
func ParseToken(tokenStr, secret string) (string, string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", "", ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", ErrInvalidToken
	}
	scope, _ := claims["scope"].(string)
	return userID, scope, nil
}

func bearer(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		abort(c, "Authorization header required")
		return "", false
	}
	if len(authHeader) > maxAuthLen {
		abort(c, "Authorization header too long")
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		abort(c, "Invalid authorization header; expected Bearer token")
		return "", false
	}
	return parts[1], true
}

func abort(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": false, "message": message})
}

// UserAuthMiddleware accepts tokens of the given scopes for an existing user
// and stores the id under "user_id".
func UserAuthMiddleware(secret string, exists UserLookup, scopes ...string) gin.HandlerFunc {
	if len(scopes) == 0 {
		scopes = []string{ScopeUser}
	}
	return func(c *gin.Context) {
		tokenStr, ok := bearer(c)
		if !ok {
			return
		}
		userID, scope, err := ParseToken(tokenStr, secret)
		if err != nil {
			abort(c, "Invalid or expired token")
			return
		}
		if !allowed(scope, scopes) {
			abort(c, "Token not valid for this request")
			return
		}
		if !exists(userID) {
			abort(c, "User not found")
			return
		}

		c.Set("user_id", userID)
		c.Set("scope", scope)
		c.Next()
	}
}

func AdminAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearer(c)
		if !ok {
			return
		}
		adminID, scope, err := ParseToken(tokenStr, secret)
		if err != nil {
			abort(c, "Invalid or expired token")
			return
		}
		if scope != ScopeAdmin {
			abort(c, "Admin access required")
			return
		}

		c.Set("user_id", adminID)
		c.Set("is_admin", true)
		c.Next()
	}
}

func allowed(scope string, scopes []string) bool {
	for _, s := range scopes {
		if s == scope {
			return true
		}
	}
	return false
}
