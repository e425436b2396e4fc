package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/you/coursegate/domain"
	"go.uber.org/zap"
)

// CredentialVerifierImpl implements domain.CredentialVerifier
type CredentialVerifierImpl struct {
	tokens  domain.TokenService
	users   domain.UserRepository
	revoked domain.RevocationStore
	log     *zap.Logger
}

// NewCredentialVerifier creates a new credential verifier. revoked may be nil when logout denylisting is disabled.
func NewCredentialVerifier(tokens domain.TokenService, users domain.UserRepository, revoked domain.RevocationStore, log *zap.Logger) domain.CredentialVerifier {
	return &CredentialVerifierImpl{
		tokens:  tokens,
		users:   users,
		revoked: revoked,
		log:     log.Named("verifier"),
	}
}

// Verify implements domain.CredentialVerifier
func (v *CredentialVerifierImpl) Verify(ctx context.Context, authorization string) (*domain.Identity, error) {
	raw, ok := bearerToken(authorization)
	if !ok {
		return nil, domain.ErrCredentialMissing
	}

	claims, err := v.tokens.Parse(raw)
	if err != nil {
		return nil, err
	}

	if v.revoked != nil {
		revoked, err := v.revoked.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, domain.ErrCredentialRevoked
		}
	}

	// live record, so a deleted or demoted account loses access immediately
	user, err := v.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrSubjectNotFound
		}
		return nil, err
	}

	return &domain.Identity{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		TokenID:   claims.TokenID,
		ExpiresAt: time.Unix(claims.ExpiresAt, 0).UTC(),
	}, nil
}

// VerifyOptional implements domain.CredentialVerifier. Every failure yields a guest (nil).
func (v *CredentialVerifierImpl) VerifyOptional(ctx context.Context, authorization string) *domain.Identity {
	if authorization == "" {
		return nil
	}
	identity, err := v.Verify(ctx, authorization)
	if err != nil {
		if errors.Is(err, domain.ErrUpstream) {
			v.log.Warn("optional credential check failed, serving as guest", zap.Error(err))
		}
		return nil
	}
	return identity
}

// bearerToken extracts <token> from "Bearer <token>"; the scheme is case-insensitive
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}
