package models

import "time"

// Listing types accepted by the marketplace
const (
	TypeSale = "sale"
	TypeRent = "rent"
)

// MaxImages is the maximum number of images attached to one listing
const MaxImages = 6

// Listing represents a property offered for sale or rent
type Listing struct {
	ID            string    `json:"_id" bson:"_id"`
	UserRef       string    `json:"userRef" bson:"userRef"`
	Name          string    `json:"name" bson:"name"`
	Description   string    `json:"description" bson:"description"`
	Address       string    `json:"address" bson:"address"`
	Type          string    `json:"type" bson:"type"`
	Bedrooms      int       `json:"bedrooms" bson:"bedrooms"`
	Bathrooms     int       `json:"bathrooms" bson:"bathrooms"`
	RegularPrice  float64   `json:"regularPrice" bson:"regularPrice"`
	DiscountPrice float64   `json:"discountPrice" bson:"discountPrice"`
	Offer         bool      `json:"offer" bson:"offer"`
	Parking       bool      `json:"parking" bson:"parking"`
	Furnished     bool      `json:"furnished" bson:"furnished"`
	ImageURLs     []string  `json:"imageUrls" bson:"imageUrls"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ListingPatch carries the fields of an update request. Nil fields keep their stored value.
type ListingPatch struct {
	Name          *string
	Description   *string
	Address       *string
	Type          *string
	Bedrooms      *int
	Bathrooms     *int
	RegularPrice  *float64
	DiscountPrice *float64
	Offer         *bool
	Parking       *bool
	Furnished     *bool
	ImageURLs     []string
}

// Apply merges the patch over l and returns the result. Identity and creation fields are untouched.
func (p ListingPatch) Apply(l Listing) Listing {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Address != nil {
		l.Address = *p.Address
	}
	if p.Type != nil {
		l.Type = *p.Type
	}
	if p.Bedrooms != nil {
		l.Bedrooms = *p.Bedrooms
	}
	if p.Bathrooms != nil {
		l.Bathrooms = *p.Bathrooms
	}
	if p.RegularPrice != nil {
		l.RegularPrice = *p.RegularPrice
	}
	if p.DiscountPrice != nil {
		l.DiscountPrice = *p.DiscountPrice
	}
	if p.Offer != nil {
		l.Offer = *p.Offer
	}
	if p.Parking != nil {
		l.Parking = *p.Parking
	}
	if p.Furnished != nil {
		l.Furnished = *p.Furnished
	}
	if p.ImageURLs != nil {
		l.ImageURLs = append([]string(nil), p.ImageURLs...)
	}
	return l
}

// ListingPage is one page of a listing search
type ListingPage struct {
	Listings    []Listing `json:"listings"`
	Total       int64     `json:"total"`
	CurrentPage int       `json:"currentPage"`
	TotalPages  int       `json:"totalPages"`
}

// Image is a file stored on the image host
type Image struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}
