package models

import "testing"

func TestLocalizedTextResolve(t *testing.T) {
	text := LocalizedText{En: "Coffee Route", Es: "Ruta del Café"}

	if got := text.Resolve(LocaleEN); got != "Coffee Route" {
		t.Fatalf("en: got %q", got)
	}
	if got := text.Resolve(LocaleES); got != "Ruta del Café" {
		t.Fatalf("es: got %q", got)
	}
	// unknown locales resolve empty instead of guessing a fallback
	if got := text.Resolve("fr"); got != "" {
		t.Fatalf("unknown locale: got %q, want empty", got)
	}
	if got := text.Resolve(""); got != "" {
		t.Fatalf("empty locale: got %q, want empty", got)
	}
}

func TestLocalizedTextIsZero(t *testing.T) {
	if !(LocalizedText{}).IsZero() {
		t.Fatal("empty text must be zero")
	}
	if (LocalizedText{Es: "Ruta"}).IsZero() {
		t.Fatal("text with one translation is not zero")
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{OrderStatusCreated, OrderStatusConfirmed, OrderStatusCancelled, OrderStatusCompleted} {
		if !ValidOrderStatus(s) {
			t.Fatalf("%q must be valid", s)
		}
	}
	for _, s := range []string{"", "pending", "CREATED", "done"} {
		if ValidOrderStatus(s) {
			t.Fatalf("%q must be invalid", s)
		}
	}
}
