// Package gate is the single authorization checkpoint for the RPC surface.
// Every procedure is statically bound to exactly one tier; the dispatcher
// calls Authorize before any handler or store access runs. Handlers contain
// no role checks of their own.
package gate

import "context"

// Tier is the minimum access level a procedure demands.
type Tier int

const (
	// TierPublic procedures run without a session.
	TierPublic Tier = iota
	// TierAuthenticated procedures require any logged-in user.
	TierAuthenticated
	// TierAdmin procedures require the admin role.
	TierAdmin
)

// RoleResolver resolves a user id to its role. Returning ok=false means the
// user no longer exists.
type RoleResolver func(ctx context.Context, userID uint) (role string, ok bool)

// Gate holds the fixed procedure→tier map and the role resolver.
type Gate struct {
	tiers   map[string]Tier
	resolve RoleResolver
	admin   string
}

// New creates a gate. adminRole is the role string granted TierAdmin access.
func New(resolve RoleResolver, adminRole string) *Gate {
	return &Gate{tiers: make(map[string]Tier), resolve: resolve, admin: adminRole}
}

// Register binds a procedure name to a tier. Overwrites any existing binding.
func (g *Gate) Register(procedure string, t Tier) {
	g.tiers[procedure] = t
}

// Tier reports the registered tier for a procedure.
func (g *Gate) Tier(procedure string) (Tier, bool) {
	t, ok := g.tiers[procedure]
	return t, ok
}

// Authorize checks the caller against the procedure's tier.
// userID 0 means no session. Returns ErrUnknownProcedure for unregistered
// names, ErrUnauthenticated when a session is required but absent, and
// ErrForbidden when the session's role is insufficient.
func (g *Gate) Authorize(ctx context.Context, procedure string, userID uint) error {
	t, ok := g.tiers[procedure]
	if !ok {
		return ErrUnknownProcedure
	}
	if t == TierPublic {
		return nil
	}
	if userID == 0 {
		return ErrUnauthenticated
	}
	role, ok := g.resolve(ctx, userID)
	if !ok {
		return ErrUnauthenticated
	}
	if t == TierAdmin && role != g.admin {
		return ErrForbidden
	}
	return nil
}
