package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

const secret = "test-secret"

func newEngine(h ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", append(h, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})...)
	return r
}

func request(r *gin.Engine, token string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestParseTokenRoundTrip(t *testing.T) {
	token, err := GenerateResetJWT("u1", secret)
	if err != nil {
		t.Fatal(err)
	}
	id, scope, err := ParseToken(token, secret)
	if err != nil || id != "u1" || scope != ScopeReset {
		t.Fatalf("unexpected parse result %s %s %v", id, scope, err)
	}
	if _, _, err := ParseToken(token, "other"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestUserAuthMiddleware(t *testing.T) {
	exists := func(id string) bool { return id == "u1" }
	r := newEngine(UserAuthMiddleware(secret, exists))

	user, _ := GenerateJWT("u1", secret)
	ghost, _ := GenerateJWT("u2", secret)
	reset, _ := GenerateResetJWT("u1", secret)

	cases := map[string]struct {
		token string
		want  int
	}{
		"valid":       {user, http.StatusOK},
		"missing":     {"", http.StatusUnauthorized},
		"garbage":     {"abc", http.StatusUnauthorized},
		"unknown":     {ghost, http.StatusUnauthorized},
		"wrong scope": {reset, http.StatusUnauthorized},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := request(r, tc.token); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestAdminAuthMiddleware(t *testing.T) {
	r := newEngine(AdminAuthMiddleware(secret))
	admin, _ := GenerateAdminJWT("admin", secret)
	user, _ := GenerateJWT("u1", secret)

	if got := request(r, admin); got != http.StatusOK {
		t.Fatalf("expected admin token to pass, got %d", got)
	}
	if got := request(r, user); got != http.StatusUnauthorized {
		t.Fatalf("expected user token to be refused, got %d", got)
	}
}
