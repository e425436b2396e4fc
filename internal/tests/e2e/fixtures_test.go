package e2e

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/you/coursegate/domain"
	"github.com/you/coursegate/internal/infrastructure/repositories"
)

const adminPassword = "admin-password-123"

type session struct {
	Token string `json:"token"`
	User  struct {
		ID   uint   `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

// CreateAdmin inserts an admin account directly; no endpoint grants the role
func CreateAdmin(t *testing.T, suite *TestSuite, email string) *repositories.DBUser {
	t.Helper()

	hash, err := suite.Container.PasswordSvc.Hash(adminPassword)
	if err != nil {
		t.Fatalf("Failed to hash admin password: %v", err)
	}
	local := strings.SplitN(email, "@", 2)[0]
	row := &repositories.DBUser{
		Code:         "USR-" + strings.ToUpper(local),
		Name:         "Admin",
		Email:        email,
		PasswordHash: hash,
		Role:         string(domain.RoleAdmin),
		CreatedAt:    time.Now().UTC(),
	}
	if err := suite.DB.Create(row).Error; err != nil {
		t.Fatalf("Failed to create admin: %v", err)
	}
	return row
}

// Login returns a session token for email/password
func Login(t *testing.T, s *TestServer, email, password string) string {
	t.Helper()

	resp := s.Do(http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": password})
	if resp.Status != http.StatusOK {
		t.Fatalf("Login %s failed with %d %s", email, resp.Status, resp.ErrorCode())
	}
	var out session
	s.Decode(resp, &out)
	return out.Token
}

// Signup registers a student and returns the session token
func Signup(t *testing.T, s *TestServer, name, email, password string) string {
	t.Helper()

	resp := s.Do(http.MethodPost, "/auth/signup", "", map[string]string{"name": name, "email": email, "password": password})
	if resp.Status != http.StatusCreated {
		t.Fatalf("Signup %s failed with %d %s", email, resp.Status, resp.ErrorCode())
	}
	var out session
	s.Decode(resp, &out)
	return out.Token
}
