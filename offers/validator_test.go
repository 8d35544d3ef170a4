package offers

import (
	"testing"
	"time"

	"andariego/models"
)

func validOffer() models.Offer {
	return models.Offer{
		OfferID:            "offer1",
		DiscountPercentage: 15,
		StartDate:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:            time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC),
		ApplicableTours:    []string{"tourA", "tourB"},
		IsActive:           true,
		DiscountCode:       "SUMMER15",
	}
}

func TestMatches(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func(*models.Offer)
		code    string
		tourIDs []string
		now     time.Time
		want    bool
	}{
		{name: "eligible", code: "SUMMER15", tourIDs: []string{"tourA"}, now: now, want: true},
		{name: "any overlapping tour qualifies", code: "SUMMER15", tourIDs: []string{"tourZ", "tourB"}, now: now, want: true},
		{name: "wrong code", code: "WINTER15", tourIDs: []string{"tourA"}, now: now, want: false},
		{name: "no tour overlap", code: "SUMMER15", tourIDs: []string{"tourZ"}, now: now, want: false},
		{name: "before window", code: "SUMMER15", tourIDs: []string{"tourA"},
			now: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), want: false},
		{name: "after window", code: "SUMMER15", tourIDs: []string{"tourA"},
			now: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), want: false},
		{name: "inactive", mutate: func(o *models.Offer) { o.IsActive = false },
			code: "SUMMER15", tourIDs: []string{"tourA"}, now: now, want: false},
		{name: "offer without code never matches", mutate: func(o *models.Offer) { o.DiscountCode = "" },
			code: "", tourIDs: []string{"tourA"}, now: now, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			offer := validOffer()
			if tc.mutate != nil {
				tc.mutate(&offer)
			}
			if got := Matches(offer, tc.code, tc.tourIDs, tc.now); got != tc.want {
				t.Fatalf("Matches = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMatchesWindowBoundsInclusive(t *testing.T) {
	offer := validOffer()
	if !Matches(offer, "SUMMER15", []string{"tourA"}, offer.StartDate) {
		t.Fatal("offer must be valid at its start instant")
	}
	if !Matches(offer, "SUMMER15", []string{"tourA"}, offer.EndDate) {
		t.Fatal("offer must be valid at its end instant")
	}
}

func TestApplyDiscount(t *testing.T) {
	tests := []struct {
		subtotal float64
		pct      float64
		want     float64
	}{
		{1000, 15, 850},
		{333, 10, 300},  // 299.7 rounds up
		{250, 10, 225},
		{99, 50, 50},    // 49.5 rounds half-up
		{1000, 0, 1000},
		{1000, 100, 0},
	}
	for _, tc := range tests {
		if got := ApplyDiscount(tc.subtotal, tc.pct); got != tc.want {
			t.Fatalf("ApplyDiscount(%v, %v) = %v, want %v", tc.subtotal, tc.pct, got, tc.want)
		}
	}
}
