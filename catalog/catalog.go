// Package catalog is the read-only view of tours the booking core consults
// for display expansion. It never mutates catalog records.
package catalog

import (
	"context"

	"andariego/apperr"
	"andariego/db"
	"andariego/models"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetTour fetches one tour by id.
func GetTour(ctx context.Context, tourID string) (*models.Tour, error) {
	var tour models.Tour
	err := db.TourCollection.FindOne(ctx, bson.M{"tourid": tourID}).Decode(&tour)
	if err == mongo.ErrNoDocuments {
		return nil, errors.Wrapf(apperr.ErrNotFound, "tour %s", tourID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "tour lookup")
	}
	return &tour, nil
}

// DisplayMap resolves a set of tour ids to display projections keyed by id.
// Unknown ids are simply absent from the result.
func DisplayMap(ctx context.Context, tourIDs []string, locale string) (map[string]models.TourDisplay, error) {
	result := make(map[string]models.TourDisplay)
	if len(tourIDs) == 0 {
		return result, nil
	}

	cursor, err := db.TourCollection.Find(ctx, bson.M{"tourid": bson.M{"$in": tourIDs}})
	if err != nil {
		return nil, errors.Wrap(err, "tour expansion")
	}
	defer cursor.Close(ctx)

	var tours []models.Tour
	if err := cursor.All(ctx, &tours); err != nil {
		return nil, errors.Wrap(err, "tour expansion")
	}
	for _, t := range tours {
		result[t.TourID] = t.Display(locale)
	}
	return result, nil
}

// ExpandItems attaches tour display data to line items.
func ExpandItems(items []models.LineItem, tours map[string]models.TourDisplay) []models.LineItemView {
	views := make([]models.LineItemView, 0, len(items))
	for _, item := range items {
		v := models.LineItemView{LineItem: item}
		if t, ok := tours[item.Tour]; ok {
			display := t
			v.TourInfo = &display
		}
		views = append(views, v)
	}
	return views
}
