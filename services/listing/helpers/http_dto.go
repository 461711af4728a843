package helpers

import model "listing-marketplace/internal/models"

// Request/Response DTOs
type CreateListingRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description" binding:"required"`
	Address       string   `json:"address" binding:"required"`
	Type          string   `json:"type" binding:"required,listingtype"`
	Bedrooms      int      `json:"bedrooms" binding:"required,min=1"`
	Bathrooms     int      `json:"bathrooms" binding:"required,min=1"`
	RegularPrice  float64  `json:"regularPrice" binding:"required,min=50"`
	DiscountPrice float64  `json:"discountPrice" binding:"min=0"`
	Offer         bool     `json:"offer"`
	Parking       bool     `json:"parking"`
	Furnished     bool     `json:"furnished"`
	ImageURLs     []string `json:"imageUrls" binding:"required,min=1,max=6,dive,required"`
}

// UpdateListingRequest only changes the fields that are present
type UpdateListingRequest struct {
	Name          *string  `json:"name" binding:"omitempty,min=1"`
	Description   *string  `json:"description" binding:"omitempty,min=1"`
	Address       *string  `json:"address" binding:"omitempty,min=1"`
	Type          *string  `json:"type" binding:"omitempty,listingtype"`
	Bedrooms      *int     `json:"bedrooms" binding:"omitempty,min=1"`
	Bathrooms     *int     `json:"bathrooms" binding:"omitempty,min=1"`
	RegularPrice  *float64 `json:"regularPrice" binding:"omitempty,min=50"`
	DiscountPrice *float64 `json:"discountPrice" binding:"omitempty,min=0"`
	Offer         *bool    `json:"offer"`
	Parking       *bool    `json:"parking"`
	Furnished     *bool    `json:"furnished"`
	ImageURLs     []string `json:"imageUrls" binding:"omitempty,max=6,dive,required"`
}

type DeleteListingResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ToListing converts the request into a listing without identity or timestamps
func (r CreateListingRequest) ToListing() model.Listing {
	return model.Listing{
		Name:          r.Name,
		Description:   r.Description,
		Address:       r.Address,
		Type:          r.Type,
		Bedrooms:      r.Bedrooms,
		Bathrooms:     r.Bathrooms,
		RegularPrice:  r.RegularPrice,
		DiscountPrice: r.DiscountPrice,
		Offer:         r.Offer,
		Parking:       r.Parking,
		Furnished:     r.Furnished,
		ImageURLs:     r.ImageURLs,
	}
}

func (r UpdateListingRequest) ToPatch() model.ListingPatch {
	return model.ListingPatch{
		Name:          r.Name,
		Description:   r.Description,
		Address:       r.Address,
		Type:          r.Type,
		Bedrooms:      r.Bedrooms,
		Bathrooms:     r.Bathrooms,
		RegularPrice:  r.RegularPrice,
		DiscountPrice: r.DiscountPrice,
		Offer:         r.Offer,
		Parking:       r.Parking,
		Furnished:     r.Furnished,
		ImageURLs:     r.ImageURLs,
	}
}
