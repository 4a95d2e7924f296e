package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vehiclecare/models"
	"vehiclecare/services/booking"
	"vehiclecare/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) ResolvePrincipal(ctx context.Context, id string, role models.Role) (*models.Principal, error) {
	args := m.Called(id, role)
	p, _ := args.Get(0).(*models.Principal)
	return p, args.Error(1)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(resolver PrincipalResolver, roles ...models.Role) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/p", JWTAuthMiddleware(resolver, nil), RequireRole(roles...), func(c *gin.Context) {
		p, _ := GetPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"id": p.ID, "role": p.Role})
	})
	return r
}

func TestJWTAuthMiddleware(t *testing.T) {
	vendor := &models.Principal{ID: "vendor-1", Role: models.RoleVendor}
	token, err := utils.GenerateToken(vendor.ID, vendor.Role, "", time.Hour)
	require.NoError(t, err)
	ghostToken, err := utils.GenerateToken("ghost", models.RoleClient, "", time.Hour)
	require.NoError(t, err)
	downToken, err := utils.GenerateToken("down", models.RoleClient, "", time.Hour)
	require.NoError(t, err)

	resolver := &mockResolver{}
	resolver.On("ResolvePrincipal", "vendor-1", models.RoleVendor).Return(vendor, nil)
	resolver.On("ResolvePrincipal", "ghost", models.RoleClient).Return(nil, booking.NewError(booking.ErrNotFound, "principal not found"))
	resolver.On("ResolvePrincipal", "down", models.RoleClient).Return(nil, booking.NewError(booking.ErrStoreUnavailable, "down"))

	tests := []struct {
		name   string
		header string
		query  string
		roles  []models.Role
		status int
	}{
		{"no token", "", "", []models.Role{models.RoleVendor}, http.StatusUnauthorized},
		{"garbage token", "Bearer nope", "", []models.Role{models.RoleVendor}, http.StatusUnauthorized},
		{"valid vendor", "Bearer " + token, "", []models.Role{models.RoleVendor}, http.StatusOK},
		{"token in query", "", token, []models.Role{models.RoleVendor}, http.StatusOK},
		{"wrong role", "Bearer " + token, "", []models.Role{models.RoleAdmin}, http.StatusForbidden},
		{"unknown principal", "Bearer " + ghostToken, "", []models.Role{models.RoleClient}, http.StatusUnauthorized},
		{"directory down", "Bearer " + downToken, "", []models.Role{models.RoleClient}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := "/p"
			if tt.query != "" {
				url += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			protectedRouter(resolver, tt.roles...).ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, w.Header().Get(utils.RequestIDHeader))
		})
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), RequestLogger())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(utils.RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(utils.RequestIDHeader))
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.7, 10.0.0.1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.8")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func clientIPRouter(t *testing.T, trusted []string) *gin.Engine {
	t.Helper()
	r := gin.New()
	require.NoError(t, r.SetTrustedProxies(trusted))
	r.GET("/ip", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ip": getClientIP(c), "key": rateLimitKey(c)})
	})
	return r
}

func TestClientIPHonoursTrustedProxiesOnly(t *testing.T) {
	cases := []struct {
		name    string
		trusted []string
		remote  string
		xff     string
		wantIP  string
		wantKey string
	}{
		{"untrusted peer ignores forwarded header", nil, "192.0.2.1:1234", "203.0.113.9", "192.0.2.1", "192.0.2.1"},
		{"trusted proxy forwards client", []string{"10.1.0.0/16"}, "10.1.2.3:5555", "203.0.113.9, 10.1.2.4", "203.0.113.9", "203.0.113.9"},
		{"spoofed hop before untrusted proxy", []string{"10.1.0.0/16"}, "10.1.2.3:5555", "1.1.1.1, 198.51.100.4", "198.51.100.4", "198.51.100.4"},
		{"ipv6 keyed by /64", nil, "[2001:db8:1:2:3:4:5:6]:443", "", "2001:db8:1:2:3:4:5:6", "2001:db8:1:2::/64"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := clientIPRouter(t, tc.trusted)
			req := httptest.NewRequest(http.MethodGet, "/ip", nil)
			req.RemoteAddr = tc.remote
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, http.StatusOK, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.wantIP, body["ip"])
			assert.Equal(t, tc.wantKey, body["key"])
		})
	}
}

func TestRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	r := gin.New()
	require.NoError(t, r.SetTrustedProxies(nil))
	r.Use(RateLimitMiddleware(1))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 2)
	for _, xff := range []string{"10.0.0.1", "10.0.0.2"} {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = "192.0.2.50:4000"
		req.Header.Set("X-Forwarded-For", xff)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}
