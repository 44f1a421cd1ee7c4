package identity

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domain "github.com/oksasatya/go-ddd-social-graph/internal/domain/identity"
)

// SessionClaims are the claims carried by a provider session token.
type SessionClaims struct {
	AuthorizedParty string `json:"azp,omitempty"`
	SessionID       string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier validates provider-issued session tokens. Production uses
// the provider's RS256 public key; local setups can sign with a shared secret.
type TokenVerifier struct {
	rsaKey  *rsa.PublicKey
	secret  []byte
	parties []string
	leeway  time.Duration
}

func NewRSAVerifier(key *rsa.PublicKey, parties []string) *TokenVerifier {
	return &TokenVerifier{rsaKey: key, parties: parties, leeway: 5 * time.Second}
}

func NewHMACVerifier(secret string, parties []string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), parties: parties, leeway: 5 * time.Second}
}

// NewVerifierFromConfig prefers the PEM public key when a path is given.
func NewVerifierFromConfig(publicKeyPath, secret string, parties []string) (*TokenVerifier, error) {
	if publicKeyPath == "" {
		if secret == "" {
			return nil, errors.New("identity: neither public key nor secret configured")
		}
		return NewHMACVerifier(secret, parties), nil
	}
	pem, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read idp public key: %w", err)
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM(pem)
	if err != nil {
		return nil, fmt.Errorf("parse idp public key: %w", err)
	}
	return NewRSAVerifier(key, parties), nil
}

func (v *TokenVerifier) Verify(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrInvalidToken
	}
	claims := &SessionClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, v.keyFunc,
		jwt.WithLeeway(v.leeway),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tkn.Valid {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", domain.ErrInvalidToken)
	}
	if len(v.parties) > 0 && !slices.Contains(v.parties, claims.AuthorizedParty) {
		return "", fmt.Errorf("%w: unauthorized party %q", domain.ErrInvalidToken, claims.AuthorizedParty)
	}
	return claims.Subject, nil
}

func (v *TokenVerifier) keyFunc(token *jwt.Token) (interface{}, error) {
	if v.rsaKey != nil {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.rsaKey, nil
	}
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unexpected signing method")
	}
	return v.secret, nil
}

var _ domain.Verifier = (*TokenVerifier)(nil)
