package rbac

import (
	"context"
	"log/slog"
)

// OverrideStore is the persistence contract for per-user page overrides.
type OverrideStore interface {
	// Get returns the override for (userID, page), or nil when absent.
	Get(ctx context.Context, userID int64, page Page) (*Override, error)
	// ListForUser returns every override belonging to userID.
	ListForUser(ctx context.Context, userID int64) ([]Override, error)
	// Set upserts the override for (userID, page). Concurrent calls for the
	// same key must leave exactly one row behind.
	Set(ctx context.Context, userID int64, page Page, hasAccess bool) (*Override, error)
}

// Resolver computes effective permissions: role defaults overwritten by any
// persisted overrides. Results are computed per call, never cached, so a
// change is visible on the affected user's very next request.
type Resolver struct {
	store  OverrideStore
	logger *slog.Logger
}

func NewResolver(store OverrideStore, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:  store,
		logger: logger,
	}
}

// Resolve returns the full Page map for the identity, covering all pages
// even when no overrides exist.
func (r *Resolver) Resolve(ctx context.Context, id Identity) (map[Page]bool, error) {
	perms := DefaultPermissions(id.Role)

	overrides, err := r.store.ListForUser(ctx, id.UserID)
	if err != nil {
		r.logger.Error("failed to load page overrides", "user_id", id.UserID, "error", err)
		return nil, err
	}

	for _, o := range overrides {
		// override wins over the role default in both directions
		perms[o.Page] = o.HasAccess
	}
	return perms, nil
}

// Check resolves a single page for the identity.
func (r *Resolver) Check(ctx context.Context, id Identity, page Page) (bool, error) {
	perms, err := r.Resolve(ctx, id)
	if err != nil {
		return false, err
	}
	return perms[page], nil
}
