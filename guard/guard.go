// Package guard holds the single ownership check every mutating handler
// applies before touching a resource.
package guard

import "andariego/apperr"

// RequireOwner fails unless the caller is the resource owner.
func RequireOwner(ownerID, callerID string) error {
	if callerID == "" || ownerID != callerID {
		return apperr.ErrForbidden
	}
	return nil
}

// RequireOwnerOrAdmin additionally lets staff through.
func RequireOwnerOrAdmin(ownerID, callerID, role string) error {
	if role == "admin" {
		return nil
	}
	return RequireOwner(ownerID, callerID)
}
