package tours

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"andariego/db"
	"andariego/models"
	"andariego/rdx"
	"andariego/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const tourCacheTTL = 10 * time.Minute

// tourView is the localized read-side shape. Catalog text always goes out
// resolved for one locale; clients never see the raw translation maps.
type tourView struct {
	TourID        string          `json:"tourid"`
	Title         string          `json:"title"`
	Subtitle      string          `json:"subtitle"`
	Slug          string          `json:"slug"`
	ImageURL      string          `json:"imageUrl"`
	Price         float64         `json:"price"`
	OriginalPrice float64         `json:"originalPrice,omitempty"`
	Duration      string          `json:"duration"`
	Rating        float64         `json:"rating"`
	Reviews       int             `json:"reviews"`
	Location      string          `json:"location"`
	Region        string          `json:"region"`
	Category      string          `json:"category"`
	Difficulty    string          `json:"difficulty"`
	PackageType   string          `json:"packageType"`
	Featured      bool            `json:"featured,omitempty"`
	Transports    []transportView `json:"transports"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type transportView struct {
	TransportID string  `json:"transportid"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Price       float64 `json:"price"`
}

func newTourView(t models.Tour, transports []models.Transport, locale string) tourView {
	tv := tourView{
		TourID:        t.TourID,
		Title:         t.Title.Resolve(locale),
		Subtitle:      t.Subtitle.Resolve(locale),
		Slug:          t.Slug,
		ImageURL:      t.ImageURL,
		Price:         t.Price,
		OriginalPrice: t.OriginalPrice,
		Duration:      t.Duration.Resolve(locale),
		Rating:        t.Rating,
		Reviews:       t.Reviews,
		Location:      t.Location,
		Region:        t.Region,
		Category:      t.Category,
		Difficulty:    t.Difficulty,
		PackageType:   t.PackageType,
		Featured:      t.Featured,
		Transports:    []transportView{},
		CreatedAt:     t.CreatedAt,
	}
	for _, tr := range transports {
		tv.Transports = append(tv.Transports, transportView{
			TransportID: tr.TransportID,
			Name:        tr.Name.Resolve(locale),
			Description: tr.Description.Resolve(locale),
			Type:        tr.Type,
			Price:       tr.Price,
		})
	}
	return tv
}

// CreateTour registers a catalog entry. The slug is derived from the English
// title when absent.
func CreateTour(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var tour models.Tour
	if err := json.NewDecoder(r.Body).Decode(&tour); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if tour.Title.IsZero() {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}
	if tour.Price < 0 {
		http.Error(w, "Price cannot be negative", http.StatusBadRequest)
		return
	}
	if tour.Slug == "" {
		tour.Slug = utils.Slugify(tour.Title.En)
	}
	if tour.Slug == "" {
		http.Error(w, "Slug is required", http.StatusBadRequest)
		return
	}
	if tour.TransportOptionIDs == nil {
		tour.TransportOptionIDs = []string{}
	}

	tour.TourID = utils.GenerateID(12)
	tour.CreatedAt = time.Now()
	tour.UpdatedAt = tour.CreatedAt

	if _, err := db.TourCollection.InsertOne(ctx, tour); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			http.Error(w, "Slug already in use", http.StatusBadRequest)
			return
		}
		log.Println("CreateTour InsertOne error:", err)
		http.Error(w, "Failed to create tour", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, tour)
}

// GetTours lists the catalog, paginated and localized.
func GetTours(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := utils.ParseQueryOptions(r)

	total, err := db.TourCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		http.Error(w, "Could not retrieve tours", http.StatusInternalServerError)
		return
	}

	findOpts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(opts.Skip()).
		SetLimit(int64(opts.Limit))
	cursor, err := db.TourCollection.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		http.Error(w, "Could not retrieve tours", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var tourList []models.Tour
	if err := cursor.All(ctx, &tourList); err != nil {
		http.Error(w, "Error reading tour data", http.StatusInternalServerError)
		return
	}

	views := make([]tourView, 0, len(tourList))
	for _, t := range tourList {
		transports, err := fetchTransports(ctx, t.TransportOptionIDs)
		if err != nil {
			http.Error(w, "Error reading tour data", http.StatusInternalServerError)
			return
		}
		views = append(views, newTourView(t, transports, opts.Lang))
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

// GetTour returns one tour; the raw record is served read-through from
// redis, localization happens per request.
func GetTour(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tourID := ps.ByName("tourid")
	opts := utils.ParseQueryOptions(r)

	tour, err := cachedTour(ctx, tourID)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Tour not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Could not retrieve tour", http.StatusInternalServerError)
		return
	}

	transports, err := fetchTransports(ctx, tour.TransportOptionIDs)
	if err != nil {
		http.Error(w, "Error reading tour data", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, newTourView(*tour, transports, opts.Lang))
}

// GetTourBySlug resolves the public URL form.
func GetTourBySlug(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := utils.ParseQueryOptions(r)

	var tour models.Tour
	err := db.TourCollection.FindOne(ctx, bson.M{"slug": ps.ByName("slug")}).Decode(&tour)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Tour not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Could not retrieve tour", http.StatusInternalServerError)
		return
	}

	transports, err := fetchTransports(ctx, tour.TransportOptionIDs)
	if err != nil {
		http.Error(w, "Error reading tour data", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, newTourView(tour, transports, opts.Lang))
}

// EditTour applies a partial update and invalidates the cache entry.
func EditTour(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tourID := ps.ByName("tourid")

	var patch bson.M
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	// identity and bookkeeping fields are not client-writable
	delete(patch, "tourid")
	delete(patch, "createdAt")
	delete(patch, "updatedAt")
	if len(patch) == 0 {
		http.Error(w, "Nothing to update", http.StatusBadRequest)
		return
	}
	patch["updatedAt"] = time.Now()

	res := db.TourCollection.FindOneAndUpdate(ctx,
		bson.M{"tourid": tourID},
		bson.M{"$set": patch},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated models.Tour
	if err := res.Decode(&updated); err != nil {
		code, msg := editTourError(err)
		if code == http.StatusInternalServerError {
			log.Println("EditTour update error:", err)
		}
		http.Error(w, msg, code)
		return
	}

	invalidateTourCache(tourID)
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// DeleteTour removes a catalog entry and its cache record. Carts and orders
// referencing it keep their snapshotted prices.
func DeleteTour(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tourID := ps.ByName("tourid")

	res, err := db.TourCollection.DeleteOne(ctx, bson.M{"tourid": tourID})
	if err != nil {
		http.Error(w, "Failed to delete tour", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "Tour not found", http.StatusNotFound)
		return
	}

	invalidateTourCache(tourID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// editTourError maps update failures onto client responses. A patched slug
// can collide with the unique index just like a created one.
func editTourError(err error) (int, string) {
	switch {
	case err == mongo.ErrNoDocuments:
		return http.StatusNotFound, "Tour not found"
	case mongo.IsDuplicateKeyError(err):
		return http.StatusBadRequest, "Slug already in use"
	default:
		return http.StatusInternalServerError, "Failed to update tour"
	}
}

func cachedTour(ctx context.Context, tourID string) (*models.Tour, error) {
	if cached, err := rdx.RdxGet("tour:" + tourID); err == nil && cached != "" {
		var tour models.Tour
		if err := json.Unmarshal([]byte(cached), &tour); err == nil {
			return &tour, nil
		}
	}

	var tour models.Tour
	if err := db.TourCollection.FindOne(ctx, bson.M{"tourid": tourID}).Decode(&tour); err != nil {
		return nil, err
	}

	if data, err := json.Marshal(tour); err == nil {
		if err := rdx.RdxSet("tour:"+tourID, string(data), tourCacheTTL); err != nil {
			log.Printf("Tour cache write failed for %s: %v", tourID, err)
		}
	}
	return &tour, nil
}

func invalidateTourCache(tourID string) {
	if _, err := rdx.RdxDel("tour:" + tourID); err != nil {
		log.Printf("Cache deletion failed for tour %s: %v", tourID, err)
	}
}

func fetchTransports(ctx context.Context, ids []string) ([]models.Transport, error) {
	if len(ids) == 0 {
		return []models.Transport{}, nil
	}
	cursor, err := db.TransportCollection.Find(ctx, bson.M{"transportid": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var transports []models.Transport
	if err := cursor.All(ctx, &transports); err != nil {
		return nil, err
	}
	return transports, nil
}
