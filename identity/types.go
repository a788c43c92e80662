package identity

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// Session is the provider's signed-in principal as mirrored locally. A nil
// *Session means nobody is signed in.
type Session struct {
	IdentityID  string `json:"identityId"`
	IsAnonymous bool   `json:"isAnonymous"`
}

// Provider is the identity provider contract the bootstrapper is written against
type Provider interface {
	SignInAnonymously(ctx context.Context) error
	SignInWithToken(ctx context.Context, token string) error
	SignOut(ctx context.Context) error
	// OnStateChange registers fn for every session change & returns a func
	// that removes the registration again.
	OnStateChange(fn func(*Session)) (unsubscribe func())
}

// Factory builds a fresh provider client, one per page instance
type Factory func() (Provider, error)

var (
	ErrClientClosed = errors.New("identity client is closed")
	ErrNoIdentity   = errors.New("id token carries no identity")
)

// APIError is an error envelope returned by the identity toolkit
type APIError struct {
	Status  int
	Code    int
	Message string
	Reason  string // reason of the first error detail, if any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("identity provider returned %v: %v", e.Status, e.Message)
}
