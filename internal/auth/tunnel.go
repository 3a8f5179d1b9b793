package auth

import (
	"crypto/subtle"
	"errors"
)

var (
	// ErrTunnelDisabled means no tunnel secret is configured; every
	// connection attempt is refused.
	ErrTunnelDisabled = errors.New("tunnel secret not configured")
	// ErrTunnelSecret means the presented secret does not match.
	ErrTunnelSecret = errors.New("invalid tunnel secret")
)

// TunnelAuthenticator checks the bearer secret presented by edge agents
// opening a tunnel.
type TunnelAuthenticator struct {
	secret []byte
}

// NewTunnelAuthenticator creates an authenticator. An empty secret
// disables the tunnel.
func NewTunnelAuthenticator(secret string) *TunnelAuthenticator {
	return &TunnelAuthenticator{secret: []byte(secret)}
}

// Enabled reports whether a secret is configured.
func (a *TunnelAuthenticator) Enabled() bool { return len(a.secret) > 0 }

// Check compares presented against the configured secret in constant time.
func (a *TunnelAuthenticator) Check(presented string) error {
	if !a.Enabled() {
		return ErrTunnelDisabled
	}
	if subtle.ConstantTimeCompare(a.secret, []byte(presented)) != 1 {
		return ErrTunnelSecret
	}
	return nil
}
