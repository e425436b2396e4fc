package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/you/coursegate/domain"
)

type PolicyHandlers struct{ policies domain.PolicyService }

func NewPolicyHandlers(policies domain.PolicyService) *PolicyHandlers {
	return &PolicyHandlers{policies: policies}
}

type policyReq struct {
	Role    string `json:"role"`
	Path    string `json:"path"`
	Methods string `json:"methods"`
}

func (h *PolicyHandlers) List(c *gin.Context) {
	policies, err := h.policies.GetPolicies()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": policies})
}

func (h *PolicyHandlers) Add(c *gin.Context) {
	var r policyReq
	if err := bindJSON(c, &r, false); err != nil {
		respondError(c, err)
		return
	}
	role := domain.Role(strings.TrimSpace(r.Role))
	if !role.Valid() {
		respondError(c, domain.NewValidationError("role", "unknown role"))
		return
	}
	if !strings.HasPrefix(r.Path, "/") {
		respondError(c, domain.NewValidationError("path", "must start with /"))
		return
	}
	if strings.TrimSpace(r.Methods) == "" {
		respondError(c, domain.NewValidationError("methods", "is required"))
		return
	}
	rule := domain.PolicyRule{Role: role, Path: r.Path, Methods: strings.TrimSpace(r.Methods)}
	if err := h.policies.EnsurePolicies([]domain.PolicyRule{rule}); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
