package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"andariego/apperr"
	"andariego/cart"
	"andariego/catalog"
	"andariego/config"
	"andariego/db"
	"andariego/guard"
	"andariego/models"
	"andariego/offers"
	"andariego/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Handler owns the order operations. Ownership enforcement on reads and
// administrative mutations is a deployment decision, so it comes from config
// instead of being hardwired.
type Handler struct {
	enforceOwner  bool
	voucherSecret []byte
	hub           *Hub
}

func NewHandler(cfg *config.Config, hub *Hub) *Handler {
	return &Handler{
		enforceOwner:  cfg.EnforceOrderOwner,
		voucherSecret: cfg.VoucherSecret,
		hub:           hub,
	}
}

// CreateOrder converts a validated item set into an immutable order. The
// discount check runs strictly before persistence: a rejected code means no
// order exists afterwards.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		CartID           string              `json:"cartId"`
		Items            []models.LineItem   `json:"items"`
		Customer         models.CustomerInfo `json:"customer"`
		TotalPrice       float64             `json:"totalPrice"`
		PaymentMethod    string              `json:"paymentMethod"`
		Notes            string              `json:"notes"`
		DiscountCodeUsed string              `json:"discountCodeUsed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Println("CreateOrder decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	items, err := cart.NormalizeItems(payload.Items)
	if err != nil {
		utils.RespondWithError(w, apperr.Status(err), err.Error())
		return
	}
	if payload.Customer.FullName == "" || payload.Customer.Email == "" {
		http.Error(w, "Customer name and email are required", http.StatusBadRequest)
		return
	}
	if payload.TotalPrice < 0 {
		http.Error(w, "Total price cannot be negative", http.StatusBadRequest)
		return
	}

	tourIDs := make([]string, 0, len(items))
	for _, item := range items {
		tourIDs = append(tourIDs, item.Tour)
	}

	finalPrice := payload.TotalPrice
	appliedOffer := ""
	if payload.DiscountCodeUsed != "" {
		offer, err := offers.FindValidOffer(ctx, payload.DiscountCodeUsed, tourIDs, time.Now())
		if err != nil {
			utils.RespondWithError(w, apperr.Status(err), err.Error())
			return
		}
		finalPrice = offers.ApplyDiscount(payload.TotalPrice, offer.DiscountPercentage)
		appliedOffer = offer.OfferID
	}

	now := time.Now()
	order := models.Order{
		OrderID:          utils.GenerateID(12),
		Items:            items,
		Customer:         payload.Customer,
		TotalPrice:       finalPrice,
		Status:           models.OrderStatusCreated,
		PaymentMethod:    payload.PaymentMethod,
		Notes:            payload.Notes,
		AppliedOffer:     appliedOffer,
		DiscountCodeUsed: payload.DiscountCodeUsed,
		UserID:           userID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if _, err := db.OrderCollection.InsertOne(ctx, order); err != nil {
		log.Println("CreateOrder InsertOne error:", err)
		http.Error(w, "Order creation failed", http.StatusInternalServerError)
		return
	}

	// Checkout path: close the source cart. One-way transition; a closed
	// cart never reopens.
	if payload.CartID != "" {
		_, err := db.CartCollection.UpdateOne(ctx,
			bson.M{"cartid": payload.CartID, "userId": userID, "isOrdered": false},
			bson.M{"$set": bson.M{"isOrdered": true, "updatedAt": now}},
		)
		if err != nil {
			log.Println("CreateOrder cart close error:", err)
		}
	}

	view, err := h.orderView(ctx, order, utils.ParseQueryOptions(r).Lang)
	if err != nil {
		log.Println("CreateOrder view error:", err)
		utils.RespondWithJSON(w, http.StatusCreated, order)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, view)
}

// GetOrders lists orders, paginated. With ownership enforcement on,
// non-admin callers only see their own.
func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := utils.ParseQueryOptions(r)

	filter := bson.M{}
	if h.enforceOwner && utils.GetRoleFromRequest(r) != models.RoleAdmin {
		userID := utils.GetUserIDFromRequest(r)
		if userID == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		filter["user"] = userID
	}

	total, err := db.OrderCollection.CountDocuments(ctx, filter)
	if err != nil {
		http.Error(w, "Could not retrieve orders", http.StatusInternalServerError)
		return
	}

	findOpts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(opts.Skip()).
		SetLimit(int64(opts.Limit))
	cursor, err := db.OrderCollection.Find(ctx, filter, findOpts)
	if err != nil {
		http.Error(w, "Could not retrieve orders", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var orderList []models.Order
	if err := cursor.All(ctx, &orderList); err != nil {
		http.Error(w, "Error reading order data", http.StatusInternalServerError)
		return
	}

	views := make([]models.OrderView, 0, len(orderList))
	for _, o := range orderList {
		view, err := h.orderView(ctx, o, opts.Lang)
		if err != nil {
			log.Println("GetOrders view error:", err)
			http.Error(w, "Error reading order data", http.StatusInternalServerError)
			return
		}
		views = append(views, *view)
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

// GetOrder returns one order with its references expanded.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := h.loadOrder(ctx, ps.ByName("orderid"), r)
	if err != nil {
		utils.RespondWithError(w, apperr.Status(err), err.Error())
		return
	}

	view, err := h.orderView(ctx, *order, utils.ParseQueryOptions(r).Lang)
	if err != nil {
		log.Println("GetOrder view error:", err)
		http.Error(w, "Error reading order data", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, view)
}

// UpdateOrder changes status and administrative fields. Line items and
// pricing are immutable after creation; there is no code path that rewrites
// them. Status changes are pushed to websocket subscribers.
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orderID := ps.ByName("orderid")

	var patch struct {
		Status        *string `json:"status"`
		PaymentMethod *string `json:"paymentMethod"`
		Notes         *string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if _, err := h.loadOrder(ctx, orderID, r); err != nil {
		utils.RespondWithError(w, apperr.Status(err), err.Error())
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if patch.Status != nil {
		if !models.ValidOrderStatus(*patch.Status) {
			http.Error(w, "Invalid order status", http.StatusBadRequest)
			return
		}
		set["status"] = *patch.Status
	}
	if patch.PaymentMethod != nil {
		set["paymentMethod"] = *patch.PaymentMethod
	}
	if patch.Notes != nil {
		set["notes"] = *patch.Notes
	}

	res := db.OrderCollection.FindOneAndUpdate(ctx,
		bson.M{"orderid": orderID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated models.Order
	if err := res.Decode(&updated); err != nil {
		log.Println("UpdateOrder update error:", err)
		http.Error(w, "Failed to update order", http.StatusInternalServerError)
		return
	}

	if patch.Status != nil {
		h.hub.BroadcastStatus(updated.OrderID, updated.Status)
	}

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// RemoveOrder deletes an order record.
func (h *Handler) RemoveOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orderID := ps.ByName("orderid")

	if _, err := h.loadOrder(ctx, orderID, r); err != nil {
		utils.RespondWithError(w, apperr.Status(err), err.Error())
		return
	}

	res, err := db.OrderCollection.DeleteOne(ctx, bson.M{"orderid": orderID})
	if err != nil {
		http.Error(w, "Failed to delete order", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted", "orderid": orderID})
}

func fetchOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, errors.Wrapf(apperr.ErrNotFound, "order %s", orderID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "order lookup")
	}
	return &order, nil
}

// requireOrderAccess applies the owner-or-admin check. Administrative reads
// and mutations only check when enforcement is configured; paths that expose
// personal data pass always=true and check under either setting.
func (h *Handler) requireOrderAccess(o *models.Order, r *http.Request, always bool) error {
	if !always && !h.enforceOwner {
		return nil
	}
	return guard.RequireOwnerOrAdmin(o.UserID, utils.GetUserIDFromRequest(r), utils.GetRoleFromRequest(r))
}

// loadOrder fetches an order and, when enforcement is configured, applies
// the owner-or-admin check.
func (h *Handler) loadOrder(ctx context.Context, orderID string, r *http.Request) (*models.Order, error) {
	order, err := fetchOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := h.requireOrderAccess(order, r, false); err != nil {
		return nil, err
	}
	return order, nil
}

// orderView expands tour, offer and user references for display.
func (h *Handler) orderView(ctx context.Context, o models.Order, locale string) (*models.OrderView, error) {
	tourIDs := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		tourIDs = append(tourIDs, item.Tour)
	}
	tours, err := catalog.DisplayMap(ctx, tourIDs, locale)
	if err != nil {
		return nil, err
	}

	view := &models.OrderView{
		OrderID:          o.OrderID,
		Items:            catalog.ExpandItems(o.Items, tours),
		Customer:         o.Customer,
		TotalPrice:       o.TotalPrice,
		Status:           o.Status,
		PaymentMethod:    o.PaymentMethod,
		Notes:            o.Notes,
		DiscountCodeUsed: o.DiscountCodeUsed,
		CreatedAt:        o.CreatedAt,
	}

	if o.AppliedOffer != "" {
		var offer models.Offer
		err := db.OfferCollection.FindOne(ctx, bson.M{"offerid": o.AppliedOffer}).Decode(&offer)
		if err == nil {
			display := offer.Display()
			view.AppliedOffer = &display
		} else if err != mongo.ErrNoDocuments {
			return nil, errors.Wrap(err, "offer expansion")
		}
	}

	var user models.User
	err = db.UserCollection.FindOne(ctx, bson.M{"userid": o.UserID}).Decode(&user)
	if err == nil {
		view.User = &models.UserDisplay{UserID: user.UserID, FullName: user.FullName, Email: user.Email}
	} else if err != mongo.ErrNoDocuments {
		return nil, errors.Wrap(err, "user expansion")
	}

	return view, nil
}
