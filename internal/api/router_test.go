package api

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/solvento/hrcore/internal/auth"
	"github.com/solvento/hrcore/internal/database/testutil"
	"github.com/solvento/hrcore/internal/endpoints"
	"github.com/solvento/hrcore/internal/models"
	"github.com/solvento/hrcore/internal/services"
)

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	endpoints.Reset()
	t.Cleanup(endpoints.Reset)

	db := testutil.MustOpenTestDB(t)
	jwtService, err := auth.NewJWTService(auth.JWTConfig{Secret: "test-secret", Issuer: "orgadmin"})
	require.NoError(t, err)
	return NewRouter(db, jwtService), db, jwtService
}

func seedAccount(t *testing.T, db *gorm.DB, email, password string, role models.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := models.User{Name: "Test", Email: email, Password: string(hash), Role: role}
	u.IsActive = true
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func request(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestHealthAndLoginBypassGrants(t *testing.T) {
	r, db, _ := newTestServer(t)
	seedAccount(t, db, "admin@example.com", "secret-pass", models.RoleAdmin)

	require.Equal(t, http.StatusOK, request(r, http.MethodGet, "/health", "", "").Code)

	w := request(r, http.MethodPost, "/api/auth/login", "",
		`{"email":"admin@example.com","password":"secret-pass"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "access_token")

	w = request(r, http.MethodPost, "/api/auth/login", "",
		`{"email":"admin@example.com","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGrantsGateEveryoneIncludingAdmins(t *testing.T) {
	r, db, jwtService := newTestServer(t)
	admin := seedAccount(t, db, "admin@example.com", "secret-pass", models.RoleAdmin)
	token, err := jwtService.GenerateAccessToken(admin)
	require.NoError(t, err)

	// no token at all
	require.Equal(t, http.StatusUnauthorized,
		request(r, http.MethodGet, "/api/v1/users", "", "").Code)

	// authenticated but ungranted: default deny, even for an admin
	require.Equal(t, http.StatusForbidden,
		request(r, http.MethodGet, "/api/v1/users", token, "").Code)

	// a base grant opens the whole resource family
	permSvc := services.NewUserPermissionService(db, services.NewAuditService(db))
	require.NoError(t, permSvc.ReplaceAll(t.Context(), admin.ID, services.PermissionMap{
		"/api/v1/users": {"GET": true},
	}, nil))

	require.Equal(t, http.StatusOK,
		request(r, http.MethodGet, "/api/v1/users", token, "").Code)
	require.Equal(t, http.StatusOK,
		request(r, http.MethodGet, "/api/v1/users/1", token, "").Code)
	require.Equal(t, http.StatusForbidden,
		request(r, http.MethodDelete, "/api/v1/users/1", token, "").Code)
}

func TestAdminGrantGridRoundTrip(t *testing.T) {
	r, db, jwtService := newTestServer(t)
	admin := seedAccount(t, db, "admin@example.com", "secret-pass", models.RoleAdmin)
	subject := seedAccount(t, db, "user@example.com", "secret-pass", models.RoleManager)

	token, err := jwtService.GenerateAccessToken(admin)
	require.NoError(t, err)

	permSvc := services.NewUserPermissionService(db, services.NewAuditService(db))
	require.NoError(t, permSvc.ReplaceAll(t.Context(), admin.ID, services.PermissionMap{
		"/api/v1/admin": {"GET": true, "PUT": true},
	}, nil))

	grantsPath := "/api/v1/admin/permissions/users/" + strconv.FormatUint(uint64(subject.ID), 10) + "/grants"

	w := request(r, http.MethodPut, grantsPath, token,
		`{"/api/v1/employees":{"GET":true,"POST":false}}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = request(r, http.MethodGet, grantsPath, token, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"/api/v1/employees"`)

	// invalid payloads report every violation and change nothing
	w = request(r, http.MethodPut, grantsPath, token,
		`{"/etc/passwd":{"HEAD":true}}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = request(r, http.MethodGet, grantsPath, token, "")
	require.Contains(t, w.Body.String(), `"/api/v1/employees"`)

	// the catalog lists the mounted surface
	w = request(r, http.MethodGet, "/api/v1/admin/permissions/endpoints", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"/api/v1/business-groups"`)
}
