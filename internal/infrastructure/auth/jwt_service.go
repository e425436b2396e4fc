package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/you/coursegate/domain"
)

// sessionClaims is the signed payload of a session credential
type sessionClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTServiceImpl implements domain.TokenService
type JWTServiceImpl struct {
	secretKey  []byte
	issuer     string
	sessionTTL time.Duration
	now        func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(secretKey, issuer string, sessionTTL time.Duration) domain.TokenService {
	return newJWTService(secretKey, issuer, sessionTTL, time.Now)
}

func newJWTService(secretKey, issuer string, sessionTTL time.Duration, now func() time.Time) *JWTServiceImpl {
	return &JWTServiceImpl{
		secretKey:  []byte(secretKey),
		issuer:     issuer,
		sessionTTL: sessionTTL,
		now:        now,
	}
}

// Issue implements domain.TokenService. A non-positive lifetime falls back to the configured session TTL.
func (j *JWTServiceImpl) Issue(user *domain.User, lifetime time.Duration) (*domain.SessionCredential, error) {
	if lifetime <= 0 {
		lifetime = j.sessionTTL
	}

	// second precision, the wire format carries unix seconds
	now := j.now().UTC().Truncate(time.Second)
	cred := &domain.SessionCredential{
		TokenID:   uuid.NewString(),
		IssuedAt:  now,
		ExpiresAt: now.Add(lifetime),
	}

	claims := sessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        cred.TokenID,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(cred.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(cred.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
	if err != nil {
		return nil, err
	}
	cred.Token = signed
	return cred, nil
}

// Parse implements domain.TokenService
func (j *JWTServiceImpl) Parse(tokenString string) (*domain.TokenClaims, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return j.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrCredentialExpired
		}
		return nil, domain.ErrCredentialInvalid
	}

	if claims.UserID == 0 || claims.ID == "" {
		return nil, domain.ErrCredentialInvalid
	}

	out := &domain.TokenClaims{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Role:      domain.Role(claims.Role),
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Unix(),
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Unix()
	}
	return out, nil
}
