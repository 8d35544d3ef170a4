package orders

import (
	"strings"
	"testing"
	"time"
)

func TestVoucherSignAndVerify(t *testing.T) {
	secret := []byte("voucher-secret")
	issuedAt := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	payload := SignVoucherPayload(secret, "order123", issuedAt)
	if !strings.HasPrefix(payload, "order123|") {
		t.Fatalf("payload must start with the order id, got %q", payload)
	}
	if !VerifyVoucherPayload(secret, payload) {
		t.Fatal("freshly signed payload must verify")
	}
}

func TestVoucherRejectsTampering(t *testing.T) {
	secret := []byte("voucher-secret")
	payload := SignVoucherPayload(secret, "order123", time.Now())

	tampered := strings.Replace(payload, "order123", "order999", 1)
	if VerifyVoucherPayload(secret, tampered) {
		t.Fatal("tampered order id must not verify")
	}

	if VerifyVoucherPayload([]byte("other-secret"), payload) {
		t.Fatal("wrong secret must not verify")
	}

	for _, malformed := range []string{"", "no-pipes-here", "order123|notatimestamp"} {
		if VerifyVoucherPayload(secret, malformed) {
			t.Fatalf("malformed payload %q must not verify", malformed)
		}
	}
}
