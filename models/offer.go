package models

import "time"

// Offer is a staff-defined discount rule: a percentage off, valid inside a
// date window, scoped to a set of tours, redeemable by code.
type Offer struct {
	OfferID            string    `json:"offerid" bson:"offerid"`
	Title              string    `json:"title" bson:"title"`
	Description        string    `json:"description,omitempty" bson:"description,omitempty"`
	DiscountPercentage float64   `json:"discountPercentage" bson:"discountPercentage"`
	StartDate          time.Time `json:"startDate" bson:"startDate"`
	EndDate            time.Time `json:"endDate" bson:"endDate"`
	ApplicableTours    []string  `json:"applicableTours" bson:"applicableTours"`
	IsActive           bool      `json:"isActive" bson:"isActive"`
	DiscountCode       string    `json:"discountCode,omitempty" bson:"discountCode,omitempty"`
	CreatedAt          time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt" bson:"updatedAt"`
}

// OfferDisplay is the projection embedded in order views.
type OfferDisplay struct {
	OfferID            string  `json:"offerid" bson:"offerid"`
	Title              string  `json:"title" bson:"title"`
	DiscountPercentage float64 `json:"discountPercentage" bson:"discountPercentage"`
}

func (o Offer) Display() OfferDisplay {
	return OfferDisplay{
		OfferID:            o.OfferID,
		Title:              o.Title,
		DiscountPercentage: o.DiscountPercentage,
	}
}
