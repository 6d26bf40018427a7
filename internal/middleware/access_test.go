package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/solvento/hrcore/internal/access"
	"github.com/solvento/hrcore/internal/database/testutil"
	"github.com/solvento/hrcore/internal/models"
)

func newAccessRouter(t *testing.T, db *gorm.DB, userID uint) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		// stand-in for RequireAuth
		c.Set(ContextUserID, userID)
		c.Next()
	})
	r.Use(RequireAccess(access.NewResolver(db)))

	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/health", ok)
	r.GET("/api/v1/users", ok)
	r.GET("/api/v1/users/:id", ok)
	r.DELETE("/api/v1/users/:id", ok)
	return r
}

func grant(t *testing.T, db *gorm.DB, userID uint, endpoint, method string, allowed bool) {
	t.Helper()
	g := models.UserPermission{UserID: userID, Endpoint: endpoint, Method: method, Allowed: allowed}
	g.IsActive = true
	require.NoError(t, db.Create(&g).Error)
}

func do(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestAccessMiddlewareAllowList(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	r := newAccessRouter(t, db, 1)

	require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health").Code)
}

func TestAccessMiddlewareDefaultDeny(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	r := newAccessRouter(t, db, 1)

	w := do(r, http.MethodGet, "/api/v1/users")
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "GET /api/v1/users")
}

func TestAccessMiddlewareBaseGrant(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	grant(t, db, 1, "/api/v1/users", "GET", true)
	r := newAccessRouter(t, db, 1)

	require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/users").Code)
	require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/users/42").Code)
	// method stays part of the key
	require.Equal(t, http.StatusForbidden, do(r, http.MethodDelete, "/api/v1/users/42").Code)
}

func TestAccessMiddlewareExactDenialWins(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	grant(t, db, 1, "/api/v1/users", "GET", true)
	grant(t, db, 1, "/api/v1/users/13", "GET", false)
	r := newAccessRouter(t, db, 1)

	require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/users/42").Code)
	require.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/api/v1/users/13").Code)
}
