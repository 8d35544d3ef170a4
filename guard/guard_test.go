package guard

import (
	"testing"

	"andariego/apperr"

	"github.com/pkg/errors"
)

func TestRequireOwner(t *testing.T) {
	if err := RequireOwner("user1", "user1"); err != nil {
		t.Fatalf("owner must pass, got %v", err)
	}
	if err := RequireOwner("user1", "user2"); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden for mismatch, got %v", err)
	}
	if err := RequireOwner("user1", ""); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden for anonymous caller, got %v", err)
	}
	// an ownerless resource never matches, even an empty caller
	if err := RequireOwner("", ""); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden for empty owner and caller, got %v", err)
	}
}

func TestRequireOwnerOrAdmin(t *testing.T) {
	if err := RequireOwnerOrAdmin("user1", "user2", "admin"); err != nil {
		t.Fatalf("admin must pass, got %v", err)
	}
	if err := RequireOwnerOrAdmin("user1", "user1", "user"); err != nil {
		t.Fatalf("owner must pass, got %v", err)
	}
	if err := RequireOwnerOrAdmin("user1", "user2", "user"); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
