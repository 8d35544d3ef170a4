package models

import "time"

const (
	OrderStatusCreated   = "created"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCancelled = "cancelled"
	OrderStatusCompleted = "completed"
)

// ValidOrderStatus reports whether s is one of the four order states.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusCreated, OrderStatusConfirmed, OrderStatusCancelled, OrderStatusCompleted:
		return true
	}
	return false
}

// CustomerInfo is the contact block embedded in an order.
type CustomerInfo struct {
	FullName    string `json:"fullName" bson:"fullName"`
	Email       string `json:"email" bson:"email"`
	Phone       string `json:"phone,omitempty" bson:"phone,omitempty"`
	Nationality string `json:"nationality,omitempty" bson:"nationality,omitempty"`
}

// Order is the immutable record of a completed booking request. Only Status
// and administrative fields change after creation; line items never do.
type Order struct {
	OrderID          string       `json:"orderid" bson:"orderid"`
	Items            []LineItem   `json:"items" bson:"items"`
	Customer         CustomerInfo `json:"customer" bson:"customer"`
	TotalPrice       float64      `json:"totalPrice" bson:"totalPrice"`
	Status           string       `json:"status" bson:"status"`
	PaymentMethod    string       `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	Notes            string       `json:"notes,omitempty" bson:"notes,omitempty"`
	AppliedOffer     string       `json:"appliedOffer,omitempty" bson:"appliedOffer,omitempty"`
	DiscountCodeUsed string       `json:"discountCodeUsed,omitempty" bson:"discountCodeUsed,omitempty"`
	UserID           string       `json:"user" bson:"user"`
	CreatedAt        time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt" bson:"updatedAt"`
}

// OrderView is the read-side shape with references expanded.
type OrderView struct {
	OrderID          string         `json:"orderid"`
	Items            []LineItemView `json:"items"`
	Customer         CustomerInfo   `json:"customer"`
	TotalPrice       float64        `json:"totalPrice"`
	Status           string         `json:"status"`
	PaymentMethod    string         `json:"paymentMethod,omitempty"`
	Notes            string         `json:"notes,omitempty"`
	AppliedOffer     *OfferDisplay  `json:"appliedOffer,omitempty"`
	DiscountCodeUsed string         `json:"discountCodeUsed,omitempty"`
	User             *UserDisplay   `json:"user,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
}
