package orders

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"andariego/apperr"
	"andariego/config"
	"andariego/globals"
	"andariego/middleware"
	"andariego/models"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
)

func requestAs(userID, role string) *http.Request {
	r := httptest.NewRequest("GET", "/api/orders/ord1", nil)
	ctx := context.WithValue(r.Context(), globals.UserIDKey, userID)
	ctx = context.WithValue(ctx, globals.RoleKey, role)
	return r.WithContext(ctx)
}

func TestRequireOrderAccess(t *testing.T) {
	order := &models.Order{OrderID: "ord1", UserID: "owner1"}
	relaxed := &Handler{enforceOwner: false}
	strict := &Handler{enforceOwner: true}

	// administrative reads skip the check only while enforcement is off
	if err := relaxed.requireOrderAccess(order, requestAs("stranger", "user"), false); err != nil {
		t.Fatalf("relaxed read must pass, got %v", err)
	}
	if err := strict.requireOrderAccess(order, requestAs("stranger", "user"), false); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("enforced read must reject a stranger, got %v", err)
	}
	if err := strict.requireOrderAccess(order, requestAs("owner1", "user"), false); err != nil {
		t.Fatalf("owner must pass, got %v", err)
	}
	if err := strict.requireOrderAccess(order, requestAs("stranger", "admin"), false); err != nil {
		t.Fatalf("admin must pass, got %v", err)
	}
}

func TestRequireOrderAccessAlwaysChecksPersonalData(t *testing.T) {
	// the voucher path must check ownership even with enforcement off
	order := &models.Order{OrderID: "ord1", UserID: "owner1"}
	relaxed := &Handler{enforceOwner: false}

	if err := relaxed.requireOrderAccess(order, requestAs("stranger", "user"), true); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("stranger must be rejected regardless of the flag, got %v", err)
	}
	if err := relaxed.requireOrderAccess(order, requestAs("", ""), true); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("anonymous caller must be rejected, got %v", err)
	}
	if err := relaxed.requireOrderAccess(order, requestAs("owner1", "user"), true); err != nil {
		t.Fatalf("owner must pass, got %v", err)
	}
	if err := relaxed.requireOrderAccess(order, requestAs("stranger", "admin"), true); err != nil {
		t.Fatalf("admin must pass, got %v", err)
	}
}

func TestStatusUpdatesRejectsBadTokens(t *testing.T) {
	cfg := &config.Config{JWTSecret: []byte("test-secret"), EnforceOrderOwner: true}
	hub := NewHub(cfg, middleware.NewAuth(cfg))
	params := httprouter.Params{{Key: "orderid", Value: "ord1"}}

	tests := []struct {
		name   string
		header string
		query  string
	}{
		{name: "no token"},
		{name: "garbage header", header: "Bearer not.a.jwt"},
		{name: "garbage query token", query: "not.a.jwt"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			target := "/ws/orders/ord1"
			if tc.query != "" {
				target += "?token=" + tc.query
			}
			r := httptest.NewRequest("GET", target, nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			hub.StatusUpdates(w, r, params)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401 before any subscription, got %d", w.Code)
			}
		})
	}

	if len(hub.subscribers) != 0 {
		t.Fatal("rejected connections must not be subscribed")
	}
}
