package offers

import (
	"context"
	"math"
	"time"

	"andariego/apperr"
	"andariego/db"
	"andariego/models"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// FindValidOffer resolves a discount code against the supplied tours in a
// single query: the offer must be active, inside its validity window at now,
// and share at least one tour with the request. No match means the discount
// is invalid as a whole; the caller must not create anything.
func FindValidOffer(ctx context.Context, code string, tourIDs []string, now time.Time) (*models.Offer, error) {
	if code == "" || len(tourIDs) == 0 {
		return nil, apperr.ErrInvalidDiscount
	}

	filter := bson.M{
		"isActive":        true,
		"discountCode":    code,
		"applicableTours": bson.M{"$in": tourIDs},
		"startDate":       bson.M{"$lte": now},
		"endDate":         bson.M{"$gte": now},
	}

	var offer models.Offer
	err := db.OfferCollection.FindOne(ctx, filter).Decode(&offer)
	if err == mongo.ErrNoDocuments {
		return nil, errors.Wrapf(apperr.ErrInvalidDiscount, "code %q", code)
	}
	if err != nil {
		return nil, errors.Wrap(err, "offer lookup")
	}
	return &offer, nil
}

// Matches is the in-memory equivalent of the FindValidOffer filter.
func Matches(offer models.Offer, code string, tourIDs []string, now time.Time) bool {
	if !offer.IsActive || offer.DiscountCode == "" || offer.DiscountCode != code {
		return false
	}
	if now.Before(offer.StartDate) || now.After(offer.EndDate) {
		return false
	}
	for _, id := range tourIDs {
		for _, applicable := range offer.ApplicableTours {
			if id == applicable {
				return true
			}
		}
	}
	return false
}

// ApplyDiscount takes pct percent off the whole subtotal and rounds half-up
// to a whole currency unit.
func ApplyDiscount(subtotal, pct float64) float64 {
	discount := (subtotal * pct) / 100
	return math.Round(subtotal - discount)
}
