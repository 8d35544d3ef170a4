package models

import "time"

// Tour is a catalog entry. The booking core only reads it to expand display
// fields; all mutation goes through the staff catalog handlers.
type Tour struct {
	TourID             string        `json:"tourid" bson:"tourid"`
	Title              LocalizedText `json:"title" bson:"title"`
	Subtitle           LocalizedText `json:"subtitle" bson:"subtitle"`
	Slug               string        `json:"slug" bson:"slug"`
	ImageURL           string        `json:"imageUrl" bson:"imageUrl"`
	ImageID            string        `json:"imageId,omitempty" bson:"imageId,omitempty"`
	Price              float64       `json:"price" bson:"price"`
	OriginalPrice      float64       `json:"originalPrice,omitempty" bson:"originalPrice,omitempty"`
	Duration           LocalizedText `json:"duration" bson:"duration"`
	Rating             float64       `json:"rating" bson:"rating"`
	Reviews            int           `json:"reviews" bson:"reviews"`
	Location           string        `json:"location" bson:"location"`
	Region             string        `json:"region" bson:"region"`
	Category           string        `json:"category" bson:"category"`
	Difficulty         string        `json:"difficulty" bson:"difficulty"`
	PackageType        string        `json:"packageType" bson:"packageType"`
	Featured           bool          `json:"featured,omitempty" bson:"featured,omitempty"`
	TransportOptionIDs []string      `json:"transportOptionIds" bson:"transportOptionIds"`
	CreatedAt          time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// TourDisplay is the projection attached to cart and order line items.
type TourDisplay struct {
	TourID   string  `json:"tourid" bson:"tourid"`
	Title    string  `json:"title" bson:"title"`
	Price    float64 `json:"price" bson:"price"`
	Slug     string  `json:"slug" bson:"slug"`
	ImageURL string  `json:"imageUrl" bson:"imageUrl"`
}

// Display resolves the tour's localized fields for one locale.
func (t Tour) Display(locale string) TourDisplay {
	return TourDisplay{
		TourID:   t.TourID,
		Title:    t.Title.Resolve(locale),
		Price:    t.Price,
		Slug:     t.Slug,
		ImageURL: t.ImageURL,
	}
}

// Transport is a transport option referenced by tours.
type Transport struct {
	TransportID string        `json:"transportid" bson:"transportid"`
	Name        LocalizedText `json:"name" bson:"name"`
	Description LocalizedText `json:"description" bson:"description"`
	Type        string        `json:"type" bson:"type"`
	Price       float64       `json:"price" bson:"price"`
	CreatedAt   time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt" bson:"updatedAt"`
}
