// Package identity resolves the authenticated user and their tenant.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotAuthenticated is returned when no user identity can be resolved.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNoCompanyContext is returned when the user has no active company
	// membership.
	ErrNoCompanyContext = errors.New("no company context")
)

// Identity is the resolved user/tenant pair every clock action runs under.
type Identity struct {
	UserID    string
	CompanyID string
}

// Provider supplies the current identity. Implementations fail closed: any
// resolution error surfaces as ErrNotAuthenticated.
type Provider interface {
	Current(ctx context.Context) (Identity, error)
}

// MembershipLookup is the slice of the remote store the resolver needs.
type MembershipLookup interface {
	Membership(ctx context.Context, userID string) (string, error)
}

// Resolver resolves a configured user against remote membership records.
type Resolver struct {
	userID string
	lookup MembershipLookup
}

var _ Provider = (*Resolver)(nil)

// NewResolver builds a Resolver for the given user.
func NewResolver(userID string, lookup MembershipLookup) *Resolver {
	return &Resolver{userID: strings.TrimSpace(userID), lookup: lookup}
}

// Current returns the identity for the configured user, failing closed when
// the user is unset or the membership lookup errors.
func (r *Resolver) Current(ctx context.Context) (Identity, error) {
	if r == nil || r.userID == "" {
		return Identity{}, ErrNotAuthenticated
	}
	companyID, err := r.lookup.Membership(ctx, r.userID)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}
	if companyID == "" {
		return Identity{}, ErrNoCompanyContext
	}
	return Identity{UserID: r.userID, CompanyID: companyID}, nil
}
