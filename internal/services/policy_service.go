package services

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/you/coursegate/domain"
)

// casbinSubject is how a role is spelled in casbin policies
func casbinSubject(role domain.Role) string {
	return "role_" + string(role)
}

// DefaultPolicies are the route permissions seeded at startup. Routes outside
// these groups are public or gated by the enrollment and access checks.
func DefaultPolicies() []domain.PolicyRule {
	rules := []domain.PolicyRule{
		{Role: domain.RoleAdmin, Path: "/admin/*", Methods: "(GET|POST)"},
	}
	for _, role := range []domain.Role{domain.RoleStudent, domain.RoleInstructor, domain.RoleAdmin} {
		rules = append(rules,
			domain.PolicyRule{Role: role, Path: "/auth/me", Methods: "GET"},
			domain.PolicyRule{Role: role, Path: "/auth/logout", Methods: "POST"},
			domain.PolicyRule{Role: role, Path: "/enrollments/mine", Methods: "GET"},
		)
	}
	return rules
}

// PolicyServiceImpl implements domain.PolicyService using Casbin
type PolicyServiceImpl struct {
	enforcer domain.CasbinEnforcer
}

// NewPolicyService creates a new policy service
func NewPolicyService(enforcer *casbin.Enforcer) domain.PolicyService {
	return &PolicyServiceImpl{enforcer: enforcer}
}

// NewPolicyServiceWithEnforcer creates a new policy service with a CasbinEnforcer interface (for testing)
func NewPolicyServiceWithEnforcer(enforcer domain.CasbinEnforcer) domain.PolicyService {
	return &PolicyServiceImpl{enforcer: enforcer}
}

// CheckPermission implements domain.PolicyService
func (p *PolicyServiceImpl) CheckPermission(role domain.Role, path, method string) (bool, error) {
	if !role.Valid() {
		return false, nil
	}
	return p.enforcer.Enforce(casbinSubject(role), path, method)
}

// EnsurePolicies implements domain.PolicyService. Existing rules are left alone, so it is safe on every start.
func (p *PolicyServiceImpl) EnsurePolicies(rules []domain.PolicyRule) error {
	for _, r := range rules {
		if _, err := p.enforcer.AddPolicy(casbinSubject(r.Role), r.Path, r.Methods); err != nil {
			return fmt.Errorf("failed to add policy %s %s %s: %w", r.Role, r.Methods, r.Path, err)
		}
	}
	return nil
}

// GetPolicies implements domain.PolicyService
func (p *PolicyServiceImpl) GetPolicies() ([][]string, error) {
	return p.enforcer.GetPolicy()
}
