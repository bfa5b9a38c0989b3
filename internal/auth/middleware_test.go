package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin/ping", AuthMiddleware(testSecret), RequireRole(RoleAdmin), func(c *gin.Context) {
		id, ok := GetUserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	return router
}

func TestAdminGate(t *testing.T) {
	adminToken, err := GenerateAccessToken(7, "finance@example.com", RoleAdmin, testSecret)
	require.NoError(t, err)
	providerToken, err := GenerateAccessToken(8, "dr@example.com", "provider", testSecret)
	require.NoError(t, err)
	expired := signed(t, newAccessClaims(7, "finance@example.com", RoleAdmin, time.Now().Add(-time.Hour)), jwt.SigningMethodHS256)
	refreshClaims := newAccessClaims(7, "finance@example.com", RoleAdmin, time.Now())
	refreshClaims.TokenType = "refresh"
	refresh := signed(t, refreshClaims, jwt.SigningMethodHS256)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"no header", "", http.StatusUnauthorized, `{"error":"Authorization header required"}`},
		{"wrong scheme", "Token abc", http.StatusUnauthorized, `{"error":"Invalid authorization header format"}`},
		{"empty token", "Bearer ", http.StatusUnauthorized, `{"error":"Token is empty"}`},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized, `{"error":"Invalid or malformed token"}`},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, `{"error":"Token expired"}`},
		{"refresh token", "Bearer " + refresh, http.StatusUnauthorized, `{"error":"Invalid token type"}`},
		{"provider role", "Bearer " + providerToken, http.StatusForbidden, `{"error":"Insufficient permissions"}`},
		{"admin", "Bearer " + adminToken, http.StatusOK, `{"user_id":7}`},
	}

	router := adminRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestRequireRole_ContextWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for name, role := range map[string]any{"missing": nil, "not a string": 123} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if role != nil {
				c.Set(userRoleKey, role)
			}

			RequireRole(RoleAdmin)(c)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.True(t, c.IsAborted())
		})
	}
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		value  any
		wantID int64
		wantOK bool
	}{
		{"int64", int64(42), 42, true},
		{"plain int", 42, 0, false},
		{"missing", nil, 0, false},
		{"string", "42", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			if tt.value != nil {
				c.Set(userIDKey, tt.value)
			}

			id, ok := GetUserID(c)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}
