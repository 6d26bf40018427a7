package endpoints

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeTruncatesDeepPaths(t *testing.T) {
	cases := map[string]string{
		"/api/v1/employees/42":               "/api/v1/employees",
		"/api/v1/employees/42/subordinates":  "/api/v1/employees",
		"/api/v1/employees/":                 "/api/v1/employees",
		"/api/v1/employees":                  "/api/v1/employees",
		"/api/v1/departments/7/children/3":   "/api/v1/departments",
		"/api/auth/login":                    "/api/auth/login",
		"/health":                            "/health",
		"/":                                  "/",
	}
	for in, want := range cases {
		require.Equal(t, want, Normalize(in), "input %q", in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	paths := []string{
		"/api/v1/employees/42/subordinates",
		"/api/v1/users",
		"/health",
	}
	for _, p := range paths {
		once := Normalize(p)
		require.Equal(t, once, Normalize(once))
	}
}

func TestIsNormalized(t *testing.T) {
	require.True(t, IsNormalized("/api/v1/employees"))
	require.False(t, IsNormalized("/api/v1/employees/42"))
	require.False(t, IsNormalized("/health"))
}

func TestCatalogRegisterAndList(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("/api/v1/users", "POST", "create user", "users")
	Register("/api/v1/users", "GET", "list users", "users")
	Register("/api/v1/branches", "GET", "list branches", "branches")
	Register("/api/v1/users", "GET", "list users", "users") // same name, idempotent

	entries := All()
	require.Len(t, entries, 3)
	require.Equal(t, "/api/v1/branches", entries[0].Endpoint)
	require.Equal(t, []string{"branches"}, entries[0].Tags)
	require.Equal(t, "GET", entries[1].Method)
	require.Equal(t, "list users", entries[1].Name)
	require.Equal(t, "POST", entries[2].Method)
}

func TestCatalogKeepsSiblingRoutesUnderOneBase(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("/api/v1/admin", "GET", "list endpoint catalog", "admin")
	Register("/api/v1/admin", "GET", "get grant grid", "admin")

	entries := All()
	require.Len(t, entries, 2)
	require.Equal(t, "get grant grid", entries[0].Name)
	require.Equal(t, "list endpoint catalog", entries[1].Name)
}
