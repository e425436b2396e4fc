package e2e

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func path(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}

// TestProtectedEndpoints checks who may reach each guarded route
func TestProtectedEndpoints(t *testing.T) {
	suite := NewTestSuite(t)
	server := NewTestServer(t, suite)
	CreateAdmin(t, suite, "admin@school.test")
	adminToken := Login(t, server, "admin@school.test", adminPassword)
	studentToken := Signup(t, server, "Carla", "carla@example.com", "carla-pass-1")

	tests := []struct {
		name        string
		method      string
		path        string
		wantGuest   int
		wantStudent int
		wantAdmin   int
	}{
		{"health", http.MethodGet, "/health", http.StatusOK, http.StatusOK, http.StatusOK},
		{"me", http.MethodGet, "/auth/me", http.StatusUnauthorized, http.StatusOK, http.StatusOK},
		{"my enrollments", http.MethodGet, "/enrollments/mine", http.StatusUnauthorized, http.StatusOK, http.StatusOK},
		{"course gate", http.MethodGet, "/courses/1/enrollment", http.StatusOK, http.StatusOK, http.StatusOK},
		{"admin listing", http.MethodGet, "/admin/enrollments", http.StatusUnauthorized, http.StatusForbidden, http.StatusOK},
		{"admin detail", http.MethodGet, "/admin/enrollments/999", http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound},
		{"admin policies", http.MethodGet, "/admin/policies", http.StatusUnauthorized, http.StatusForbidden, http.StatusOK},
		{"unknown access link", http.MethodGet, "/access/not-a-token", http.StatusNotFound, http.StatusNotFound, http.StatusNotFound},
	}

	callers := []struct {
		name  string
		token string
		want  func(tt int, student int, admin int) int
	}{
		{"guest", "", func(g, s, a int) int { return g }},
		{"student", studentToken, func(g, s, a int) int { return s }},
		{"admin", adminToken, func(g, s, a int) int { return a }},
	}

	for _, tt := range tests {
		for _, caller := range callers {
			t.Run(tt.name+"/"+caller.name, func(t *testing.T) {
				resp := server.Do(tt.method, tt.path, caller.token, nil)
				assert.Equal(t, caller.want(tt.wantGuest, tt.wantStudent, tt.wantAdmin), resp.Status, resp.ErrorCode())
			})
		}
	}

	t.Run("garbage credential", func(t *testing.T) {
		resp := server.Do(http.MethodGet, "/auth/me", "not.a.jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.Status)
		assert.Equal(t, "CREDENTIAL_INVALID", resp.ErrorCode())
	})

	t.Run("policies can be extended", func(t *testing.T) {
		resp := server.Do(http.MethodPost, "/admin/policies", adminToken, map[string]string{
			"role": "student", "path": "/admin/policies", "methods": "GET",
		})
		assert.Equal(t, http.StatusNoContent, resp.Status)

		resp = server.Do(http.MethodGet, "/admin/policies", studentToken, nil)
		assert.Equal(t, http.StatusOK, resp.Status)
	})
}
