package mocks

import "github.com/you/coursegate/domain"

// MockPolicyService implements domain.PolicyService interface for testing
type MockPolicyService struct {
	CheckPermissionFunc func(role domain.Role, path, method string) (bool, error)
	EnsurePoliciesFunc  func(rules []domain.PolicyRule) error
	GetPoliciesFunc     func() ([][]string, error)
}

// NewMockPolicyService creates a new MockPolicyService with default behaviors
func NewMockPolicyService() *MockPolicyService {
	return &MockPolicyService{}
}

// CheckPermission checks if a role may call method on path
func (m *MockPolicyService) CheckPermission(role domain.Role, path, method string) (bool, error) {
	if m.CheckPermissionFunc != nil {
		return m.CheckPermissionFunc(role, path, method)
	}
	// Default behavior: admins may do anything, everyone else nothing
	return role == domain.RoleAdmin, nil
}

// EnsurePolicies seeds rules
func (m *MockPolicyService) EnsurePolicies(rules []domain.PolicyRule) error {
	if m.EnsurePoliciesFunc != nil {
		return m.EnsurePoliciesFunc(rules)
	}
	return nil
}

// GetPolicies lists all policies
func (m *MockPolicyService) GetPolicies() ([][]string, error) {
	if m.GetPoliciesFunc != nil {
		return m.GetPoliciesFunc()
	}
	return [][]string{}, nil
}

// Compile-time interface compliance verification
var _ domain.PolicyService = (*MockPolicyService)(nil)
