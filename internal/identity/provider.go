package identity

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
)

// ErrNotReady means no identity is currently available (not signed in, or
// the provider has been torn down).
var ErrNotReady = errors.New("identity not available")

// Provider supplies the caller's identity to the submission flow. The wizard
// depends only on this narrow contract, never on how tokens are minted.
type Provider interface {
	// Token returns a bearer credential for API calls.
	Token(ctx context.Context) (string, error)
	// UserID returns the stable identifier of the signed-in user.
	UserID() string
}

// StaticProvider holds a fixed token and user ID. Used by the CLI client and
// in tests.
type StaticProvider struct {
	mu     sync.RWMutex
	token  string
	userID string
}

// NewStaticProvider builds a provider that is immediately ready.
func NewStaticProvider(userID, token string) *StaticProvider {
	return &StaticProvider{token: token, userID: userID}
}

// FromEnv reads LC_USER_ID and LC_AUTH_TOKEN. The provider starts empty when
// the variables are unset; Token then fails with ErrNotReady.
func FromEnv() *StaticProvider {
	return &StaticProvider{
		token:  strings.TrimSpace(os.Getenv("LC_AUTH_TOKEN")),
		userID: strings.TrimSpace(os.Getenv("LC_USER_ID")),
	}
}

func (p *StaticProvider) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.token == "" || p.userID == "" {
		return "", ErrNotReady
	}
	return p.token, nil
}

func (p *StaticProvider) UserID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.userID
}

// SetIdentity installs a new identity, e.g. after a sign-in flow completes.
func (p *StaticProvider) SetIdentity(userID, token string) {
	p.mu.Lock()
	p.token = token
	p.userID = userID
	p.mu.Unlock()
}

// Clear drops the identity on logout.
func (p *StaticProvider) Clear() {
	p.SetIdentity("", "")
}
