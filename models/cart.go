package models

import "time"

// LineItem is one tour booking entry inside a cart or an order: which tour,
// when, for how many people, and at what snapshotted price.
type LineItem struct {
	Tour           string    `json:"tour" bson:"tour"`
	StartDate      time.Time `json:"startDate" bson:"startDate"`
	People         int       `json:"people" bson:"people"`
	PricePerPerson float64   `json:"pricePerPerson" bson:"pricePerPerson"`
	Total          float64   `json:"total" bson:"total"`
	Notes          string    `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Cart is a user's open pre-checkout collection of line items. A user has at
// most one cart with IsOrdered false; checkout flips the flag and the cart
// never reopens. Version is the optimistic concurrency token for item-level
// mutations.
type Cart struct {
	CartID     string     `json:"cartid" bson:"cartid"`
	UserID     string     `json:"userId" bson:"userId"`
	Items      []LineItem `json:"items" bson:"items"`
	TotalPrice float64    `json:"totalPrice" bson:"totalPrice"`
	IsOrdered  bool       `json:"isOrdered" bson:"isOrdered"`
	Version    int64      `json:"-" bson:"version"`
	CreatedAt  time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// LineItemView is a line item with its tour expanded for display.
type LineItemView struct {
	LineItem
	TourInfo *TourDisplay `json:"tourInfo,omitempty"`
}

// CartView is the read-side shape of a cart.
type CartView struct {
	CartID     string         `json:"cartid"`
	UserID     string         `json:"userId"`
	Items      []LineItemView `json:"items"`
	TotalPrice float64        `json:"totalPrice"`
	IsOrdered  bool           `json:"isOrdered"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}
