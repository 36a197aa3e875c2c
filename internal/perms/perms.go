// Package perms defines the per-list permission vocabulary and the contract
// for the store that records which users hold which permissions on which
// lists. Services depend on this interface only, never on a concrete
// storage mechanism.
package perms

import "context"

// Permission names grantable on a list.
const (
	Owner       = "owner"
	Admin       = "admin"
	Participant = "participant"
)

// All lists every permission the list type defines. Removing a participant
// revokes all of them.
var All = []string{Owner, Admin, Participant}

// Store records permission grants as (permission, user, list) triples.
// Operations are synchronous and immediately consistent.
type Store interface {
	// Assign grants the permission to the user on the list. Assigning an
	// already-held permission is a no-op.
	Assign(ctx context.Context, permission, userID, listID string) error

	// Revoke removes the grant. Revoking an absent grant is a no-op.
	Revoke(ctx context.Context, permission, userID, listID string) error

	// Has reports whether the user holds the permission on the list.
	Has(ctx context.Context, permission, userID, listID string) (bool, error)
}

// HasAny reports whether the user holds at least one of the permissions on
// the list.
func HasAny(ctx context.Context, s Store, userID, listID string, permissions ...string) (bool, error) {
	for _, p := range permissions {
		ok, err := s.Has(ctx, p, userID, listID)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
