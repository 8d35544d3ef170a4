package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"andariego/apperr"
	"andariego/catalog"
	"andariego/db"
	"andariego/guard"
	"andariego/models"
	"andariego/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// How many times a version-checked mutation is retried before giving up.
const maxMutationAttempts = 3

// addItemsUpdate builds the single upsert document for the additive append:
// new items are pushed onto the open cart and the declared total is added to
// the running total, so the result is always previous total plus declared.
// userId and isOrdered come from the filter equality and must stay out of
// $setOnInsert, or the upsert fails with a path conflict.
func addItemsUpdate(items []models.LineItem, totalPrice float64, now time.Time) bson.M {
	return bson.M{
		"$push": bson.M{"items": bson.M{"$each": items}},
		"$inc":  bson.M{"totalPrice": totalPrice, "version": 1},
		"$set":  bson.M{"updatedAt": now},
		"$setOnInsert": bson.M{
			"cartid":    utils.GenerateID(12),
			"createdAt": now,
		},
	}
}

// AddToCart appends items to the caller's open cart, creating it when there
// is none. The whole operation is a single conditional upsert so concurrent
// adds for the same user cannot lose updates: the open-cart filter, the item
// push and the total increment travel together.
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Items      []models.LineItem `json:"items"`
		TotalPrice float64           `json:"totalPrice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Println("AddToCart decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	items, err := NormalizeItems(payload.Items)
	if err != nil {
		utils.RespondWithError(w, apperr.Status(err), err.Error())
		return
	}
	if payload.TotalPrice < 0 {
		http.Error(w, "Total price cannot be negative", http.StatusBadRequest)
		return
	}

	now := time.Now()
	filter := bson.M{"userId": userID, "isOrdered": false}
	update := addItemsUpdate(items, payload.TotalPrice, now)
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved models.Cart
	if err := db.CartCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved); err != nil {
		log.Println("AddToCart upsert error:", err)
		http.Error(w, "Failed to add to cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, saved)
}

// GetCarts lists only the caller's carts, paginated, with tour display data
// attached to every line item.
func GetCarts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	opts := utils.ParseQueryOptions(r)
	filter := bson.M{"userId": userID}

	total, err := db.CartCollection.CountDocuments(ctx, filter)
	if err != nil {
		http.Error(w, "Could not retrieve carts", http.StatusInternalServerError)
		return
	}

	findOpts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(opts.Skip()).
		SetLimit(int64(opts.Limit))
	cursor, err := db.CartCollection.Find(ctx, filter, findOpts)
	if err != nil {
		http.Error(w, "Could not retrieve carts", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var carts []models.Cart
	if err := cursor.All(ctx, &carts); err != nil {
		http.Error(w, "Error reading cart data", http.StatusInternalServerError)
		return
	}

	tourIDs := make([]string, 0)
	for _, c := range carts {
		for _, item := range c.Items {
			tourIDs = append(tourIDs, item.Tour)
		}
	}
	tours, err := catalog.DisplayMap(ctx, tourIDs, opts.Lang)
	if err != nil {
		log.Println("GetCarts tour expansion error:", err)
		http.Error(w, "Error reading cart data", http.StatusInternalServerError)
		return
	}

	views := make([]models.CartView, 0, len(carts))
	for _, c := range carts {
		views = append(views, newCartView(c, tours))
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

// GetCart returns any cart by id. This is deliberately an open lookup; only
// mutations require ownership.
func GetCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := utils.ParseQueryOptions(r)

	var c models.Cart
	err := db.CartCollection.FindOne(ctx, bson.M{"cartid": ps.ByName("cartid")}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Cart not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}

	tourIDs := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		tourIDs = append(tourIDs, item.Tour)
	}
	tours, err := catalog.DisplayMap(ctx, tourIDs, opts.Lang)
	if err != nil {
		log.Println("GetCart tour expansion error:", err)
		http.Error(w, "Error reading cart data", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, newCartView(c, tours))
}

// UpdateCart replaces cart fields from a patch. When items are supplied every
// one is validated and the aggregate is recomputed from scratch, overriding
// whatever total the client sent.
func UpdateCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var patch struct {
		Items      *[]models.LineItem `json:"items"`
		TotalPrice *float64           `json:"totalPrice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	saved, err := mutateCart(ctx, ps.ByName("cartid"), userID, func(c *models.Cart) error {
		if patch.Items != nil {
			items, err := NormalizeItems(*patch.Items)
			if err != nil {
				return err
			}
			c.Items = items
			c.TotalPrice = RecomputeTotal(items)
		} else if patch.TotalPrice != nil {
			if *patch.TotalPrice < 0 {
				return errors.Wrap(apperr.ErrValidation, "total price cannot be negative")
			}
			c.TotalPrice = *patch.TotalPrice
		}
		return nil
	})
	if err != nil {
		utils.RespondWithError(w, apperr.Status(err), err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, saved)
}

// RemoveCart is an ownership-checked hard delete.
func RemoveCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	cartID := ps.ByName("cartid")

	var c models.Cart
	err := db.CartCollection.FindOne(ctx, bson.M{"cartid": cartID}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Cart not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}
	if err := guard.RequireOwner(c.UserID, userID); err != nil {
		utils.RespondWithError(w, apperr.Status(err), "You do not own this cart")
		return
	}

	if _, err := db.CartCollection.DeleteOne(ctx, bson.M{"cartid": cartID}); err != nil {
		http.Error(w, "Failed to delete cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted", "cartid": cartID})
}

// RemoveCartItem drops every line for one tour and recomputes the total.
func RemoveCartItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	saved, err := mutateCart(ctx, ps.ByName("cartid"), userID, func(c *models.Cart) error {
		return RemoveItem(c, ps.ByName("tourid"))
	})
	if err != nil {
		utils.RespondWithError(w, apperr.Status(err), err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, saved)
}

// UpdateCartItem patches one line (party size, date, notes) and recomputes
// the cart total.
func UpdateCartItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var patch ItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	saved, err := mutateCart(ctx, ps.ByName("cartid"), userID, func(c *models.Cart) error {
		return UpdateItem(c, ps.ByName("tourid"), patch)
	})
	if err != nil {
		utils.RespondWithError(w, apperr.Status(err), err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, saved)
}

// mutateCart runs an ownership-checked read-modify-write under the cart's
// version token. A concurrent writer bumps the version, the conditional
// update matches nothing, and the whole sequence is retried from a fresh
// read. Closed carts reject all mutation.
func mutateCart(ctx context.Context, cartID, userID string, mutate func(*models.Cart) error) (*models.Cart, error) {
	for attempt := 0; attempt < maxMutationAttempts; attempt++ {
		var c models.Cart
		err := db.CartCollection.FindOne(ctx, bson.M{"cartid": cartID}).Decode(&c)
		if err == mongo.ErrNoDocuments {
			return nil, errors.Wrapf(apperr.ErrNotFound, "cart %s", cartID)
		}
		if err != nil {
			return nil, errors.Wrap(err, "cart lookup")
		}
		if err := guard.RequireOwner(c.UserID, userID); err != nil {
			return nil, err
		}
		if c.IsOrdered {
			return nil, errors.Wrap(apperr.ErrValidation, "cart is already ordered")
		}

		if err := mutate(&c); err != nil {
			return nil, err
		}

		res, err := db.CartCollection.UpdateOne(ctx,
			bson.M{"cartid": cartID, "version": c.Version},
			bson.M{
				"$set": bson.M{
					"items":      c.Items,
					"totalPrice": c.TotalPrice,
					"updatedAt":  time.Now(),
				},
				"$inc": bson.M{"version": 1},
			},
		)
		if err != nil {
			return nil, errors.Wrap(err, "cart update")
		}
		if res.MatchedCount == 1 {
			c.Version++
			return &c, nil
		}
		// version moved under us; retry from a fresh read
	}
	return nil, errors.Wrapf(apperr.ErrConflict, "cart %s", cartID)
}

func newCartView(c models.Cart, tours map[string]models.TourDisplay) models.CartView {
	return models.CartView{
		CartID:     c.CartID,
		UserID:     c.UserID,
		Items:      catalog.ExpandItems(c.Items, tours),
		TotalPrice: c.TotalPrice,
		IsOrdered:  c.IsOrdered,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
