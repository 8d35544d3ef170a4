package offers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"andariego/catalog"
	"andariego/db"
	"andariego/models"
	"andariego/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateOffer registers a new discount rule. Both window dates are required
// and the window must not be empty or inverted.
func CreateOffer(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Title              string    `json:"title"`
		Description        string    `json:"description"`
		DiscountPercentage float64   `json:"discountPercentage"`
		StartDate          time.Time `json:"startDate"`
		EndDate            time.Time `json:"endDate"`
		ApplicableTours    []string  `json:"applicableTours"`
		IsActive           *bool     `json:"isActive"`
		DiscountCode       string    `json:"discountCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if input.Title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}
	if input.DiscountPercentage < 0 || input.DiscountPercentage > 100 {
		http.Error(w, "Discount percentage must be between 0 and 100", http.StatusBadRequest)
		return
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		http.Error(w, "Start and end dates are required", http.StatusBadRequest)
		return
	}
	if !input.StartDate.Before(input.EndDate) {
		http.Error(w, "Start date must be before end date", http.StatusBadRequest)
		return
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	now := time.Now()
	offer := models.Offer{
		OfferID:            utils.GenerateID(12),
		Title:              input.Title,
		Description:        input.Description,
		DiscountPercentage: input.DiscountPercentage,
		StartDate:          input.StartDate,
		EndDate:            input.EndDate,
		ApplicableTours:    input.ApplicableTours,
		IsActive:           active,
		DiscountCode:       input.DiscountCode,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if offer.ApplicableTours == nil {
		offer.ApplicableTours = []string{}
	}

	if _, err := db.OfferCollection.InsertOne(ctx, offer); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			http.Error(w, "Discount code already in use", http.StatusBadRequest)
			return
		}
		log.Println("CreateOffer InsertOne error:", err)
		http.Error(w, "Failed to create offer", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, offer)
}

// GetOffers lists offers, paginated, with applicable tours expanded for
// display.
func GetOffers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := utils.ParseQueryOptions(r)

	total, err := db.OfferCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		http.Error(w, "Could not retrieve offers", http.StatusInternalServerError)
		return
	}

	findOpts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(opts.Skip()).
		SetLimit(int64(opts.Limit))
	cursor, err := db.OfferCollection.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		http.Error(w, "Could not retrieve offers", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var offers []models.Offer
	if err := cursor.All(ctx, &offers); err != nil {
		http.Error(w, "Error reading offer data", http.StatusInternalServerError)
		return
	}
	if offers == nil {
		offers = []models.Offer{}
	}

	tourIDs := make([]string, 0)
	for _, o := range offers {
		tourIDs = append(tourIDs, o.ApplicableTours...)
	}
	tours, err := catalog.DisplayMap(ctx, tourIDs, opts.Lang)
	if err != nil {
		log.Println("GetOffers tour expansion error:", err)
		http.Error(w, "Error reading offer data", http.StatusInternalServerError)
		return
	}

	type offerView struct {
		models.Offer
		Tours []models.TourDisplay `json:"tours"`
	}
	views := make([]offerView, 0, len(offers))
	for _, o := range offers {
		v := offerView{Offer: o, Tours: []models.TourDisplay{}}
		for _, id := range o.ApplicableTours {
			if t, ok := tours[id]; ok {
				v.Tours = append(v.Tours, t)
			}
		}
		views = append(views, v)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"data": views,
		"meta": utils.M{
			"total":      total,
			"page":       opts.Page,
			"limit":      opts.Limit,
			"totalPages": utils.TotalPages(total, opts.Limit),
		},
	})
}

// GetOffer returns one offer by id.
func GetOffer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var offer models.Offer
	err := db.OfferCollection.FindOne(ctx, bson.M{"offerid": ps.ByName("offerid")}).Decode(&offer)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Offer not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Could not retrieve offer", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, offer)
}

// EditOffer applies a partial update; present fields overwrite, absent fields
// are left alone. A changed window is re-validated as a whole.
func EditOffer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	offerID := ps.ByName("offerid")

	var patch struct {
		Title              *string    `json:"title"`
		Description        *string    `json:"description"`
		DiscountPercentage *float64   `json:"discountPercentage"`
		StartDate          *time.Time `json:"startDate"`
		EndDate            *time.Time `json:"endDate"`
		ApplicableTours    *[]string  `json:"applicableTours"`
		IsActive           *bool      `json:"isActive"`
		DiscountCode       *string    `json:"discountCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	var current models.Offer
	err := db.OfferCollection.FindOne(ctx, bson.M{"offerid": offerID}).Decode(&current)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Offer not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Could not retrieve offer", http.StatusInternalServerError)
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.DiscountPercentage != nil {
		if *patch.DiscountPercentage < 0 || *patch.DiscountPercentage > 100 {
			http.Error(w, "Discount percentage must be between 0 and 100", http.StatusBadRequest)
			return
		}
		set["discountPercentage"] = *patch.DiscountPercentage
	}
	start, end := current.StartDate, current.EndDate
	if patch.StartDate != nil {
		start = *patch.StartDate
		set["startDate"] = start
	}
	if patch.EndDate != nil {
		end = *patch.EndDate
		set["endDate"] = end
	}
	if !start.Before(end) {
		http.Error(w, "Start date must be before end date", http.StatusBadRequest)
		return
	}
	if patch.ApplicableTours != nil {
		set["applicableTours"] = *patch.ApplicableTours
	}
	if patch.IsActive != nil {
		set["isActive"] = *patch.IsActive
	}
	if patch.DiscountCode != nil {
		set["discountCode"] = *patch.DiscountCode
	}

	res := db.OfferCollection.FindOneAndUpdate(ctx,
		bson.M{"offerid": offerID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated models.Offer
	if err := res.Decode(&updated); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			http.Error(w, "Discount code already in use", http.StatusBadRequest)
			return
		}
		log.Println("EditOffer update error:", err)
		http.Error(w, "Failed to update offer", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// DeleteOffer removes an offer. Orders that already applied it keep their
// reference; pricing is never recomputed retroactively.
func DeleteOffer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.OfferCollection.DeleteOne(ctx, bson.M{"offerid": ps.ByName("offerid")})
	if err != nil {
		http.Error(w, "Failed to delete offer", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "Offer not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
