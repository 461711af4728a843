package handler

//go:generate mockgen -source=listing_handler.go -destination=mock_listing_handler.go -package=handler

import (
	"context"
	"net/http"

	model "listing-marketplace/internal/models"
	"listing-marketplace/internal/query"
	"listing-marketplace/services/listing/helpers"
	"listing-marketplace/utils"

	"github.com/gin-gonic/gin"
)

type ListingServiceInterface interface {
	CreateListing(ctx context.Context, userID string, input model.Listing) (model.Listing, error)
	GetListing(ctx context.Context, id string) (model.Listing, error)
	UpdateListing(ctx context.Context, userID, id string, patch model.ListingPatch) (model.Listing, error)
	DeleteListing(ctx context.Context, userID, id string) error
	SearchListings(ctx context.Context, params query.Params) (model.ListingPage, error)
	GetUserListings(ctx context.Context, callerID, ownerID string) ([]model.Listing, error)
}

type ListingHandler struct {
	service ListingServiceInterface
}

func NewListingHandler(service ListingServiceInterface) *ListingHandler {
	helpers.RegisterValidators()
	return &ListingHandler{service: service}
}

// CreateListingHandler handles POST /api/listing/create
func (h *ListingHandler) CreateListingHandler(c *gin.Context) {
	var req helpers.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateListingHandler", err)
		return
	}

	userID := helpers.CallerID(c)
	listing, err := h.service.CreateListing(c.Request.Context(), userID, req.ToListing())
	if err != nil {
		helpers.HandleServiceError(c, "CreateListingHandler", "failed to create listing", err, map[string]any{
			"user_id": userID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, listing)
	helpers.LogSuccess("CreateListingHandler", "listing created", map[string]any{
		"listing_id": listing.ID,
		"user_id":    userID,
		"images":     len(listing.ImageURLs),
	})
}

// GetListingHandler handles GET /api/listing/get/:id
func (h *ListingHandler) GetListingHandler(c *gin.Context) {
	id := c.Param("id")
	listing, err := h.service.GetListing(c.Request.Context(), id)
	if err != nil {
		helpers.HandleServiceError(c, "GetListingHandler", "failed to get listing", err, map[string]any{
			"listing_id": id,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, listing)
}

// UpdateListingHandler handles PUT and POST /api/listing/update/:id
func (h *ListingHandler) UpdateListingHandler(c *gin.Context) {
	id := c.Param("id")
	var req helpers.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateListingHandler", err)
		return
	}

	userID := helpers.CallerID(c)
	listing, err := h.service.UpdateListing(c.Request.Context(), userID, id, req.ToPatch())
	if err != nil {
		helpers.HandleServiceError(c, "UpdateListingHandler", "failed to update listing", err, map[string]any{
			"listing_id": id,
			"user_id":    userID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, listing)
	helpers.LogSuccess("UpdateListingHandler", "listing updated", map[string]any{
		"listing_id": id,
		"user_id":    userID,
	})
}

// DeleteListingHandler handles DELETE /api/listing/delete/:id
func (h *ListingHandler) DeleteListingHandler(c *gin.Context) {
	id := c.Param("id")
	userID := helpers.CallerID(c)

	if err := h.service.DeleteListing(c.Request.Context(), userID, id); err != nil {
		helpers.HandleServiceError(c, "DeleteListingHandler", "failed to delete listing", err, map[string]any{
			"listing_id": id,
			"user_id":    userID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.DeleteListingResponse{
		Success: true,
		Message: "Listing has been deleted!",
	})
	helpers.LogSuccess("DeleteListingHandler", "listing deleted", map[string]any{
		"listing_id": id,
		"user_id":    userID,
	})
}

// SearchListingsHandler handles GET /api/listing/get
func (h *ListingHandler) SearchListingsHandler(c *gin.Context) {
	params, err := query.Parse(c.Request.URL.Query())
	if err != nil {
		helpers.HandleServiceError(c, "SearchListingsHandler", "invalid search parameters", err, map[string]any{
			"query": c.Request.URL.RawQuery,
		})
		return
	}

	page, err := h.service.SearchListings(c.Request.Context(), params)
	if err != nil {
		helpers.HandleServiceError(c, "SearchListingsHandler", "failed to search listings", err, map[string]any{
			"query": c.Request.URL.RawQuery,
		})
		return
	}

	if page.Listings == nil {
		page.Listings = []model.Listing{}
	}
	utils.JSONResponse(c, http.StatusOK, page)
}

// GetUserListingsHandler handles GET /api/user/listings/:id
func (h *ListingHandler) GetUserListingsHandler(c *gin.Context) {
	ownerID := c.Param("id")
	callerID := helpers.CallerID(c)

	listings, err := h.service.GetUserListings(c.Request.Context(), callerID, ownerID)
	if err != nil {
		helpers.HandleServiceError(c, "GetUserListingsHandler", "failed to get user listings", err, map[string]any{
			"owner_id":  ownerID,
			"caller_id": callerID,
		})
		return
	}

	if listings == nil {
		listings = []model.Listing{}
	}
	utils.JSONResponse(c, http.StatusOK, listings)
	helpers.LogSuccess("GetUserListingsHandler", "user listings retrieved", map[string]any{
		"owner_id": ownerID,
		"count":    len(listings),
	})
}
