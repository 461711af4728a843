package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"listing-marketplace/internal/listingerrors"
	"listing-marketplace/internal/models"
	"listing-marketplace/internal/query"
	"listing-marketplace/internal/repository"
	"listing-marketplace/utils"
)

// ListingService defines the business logic for property listings
type ListingService struct {
	repo repository.ListingDB
	now  func() time.Time
}

// NewListingService creates a new ListingService instance
func NewListingService(repo repository.ListingDB) *ListingService {
	return &ListingService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// CreateListing validates and stores a listing owned by userID
func (s *ListingService) CreateListing(ctx context.Context, userID string, input models.Listing) (models.Listing, error) {
	if userID == "" {
		return models.Listing{}, fmt.Errorf("service: %w", listingerrors.Unauthorized("User ID is required"))
	}

	now := s.now()
	listing := input
	listing.ID = utils.GenerateID()
	listing.UserRef = userID
	listing.ImageURLs = append([]string(nil), input.ImageURLs...)
	listing.CreatedAt = now
	listing.UpdatedAt = now

	if err := validateListing(listing); err != nil {
		return models.Listing{}, fmt.Errorf("service: %w", err)
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		return models.Listing{}, fmt.Errorf("service: failed to create listing for user %s: %w", userID, err)
	}
	return listing, nil
}

// GetListing returns a single listing
func (s *ListingService) GetListing(ctx context.Context, id string) (models.Listing, error) {
	if id == "" {
		return models.Listing{}, fmt.Errorf("service: %w", listingNotFound())
	}

	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.Listing{}, fmt.Errorf("service: failed to get listing %s: %w", id, notFoundOr(err))
	}
	return listing, nil
}

// UpdateListing merges patch over the stored listing if userID owns it
func (s *ListingService) UpdateListing(ctx context.Context, userID, id string, patch models.ListingPatch) (models.Listing, error) {
	current, err := s.GetListing(ctx, id)
	if err != nil {
		return models.Listing{}, err
	}
	if err := checkOwner(userID, current, "You can only update your own listings!"); err != nil {
		return models.Listing{}, err
	}

	updated := patch.Apply(current)
	updated.UpdatedAt = s.now()
	if err := validateListing(updated); err != nil {
		return models.Listing{}, fmt.Errorf("service: %w", err)
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		return models.Listing{}, fmt.Errorf("service: failed to update listing %s: %w", id, notFoundOr(err))
	}
	return updated, nil
}

// DeleteListing removes a listing if userID owns it
func (s *ListingService) DeleteListing(ctx context.Context, userID, id string) error {
	current, err := s.GetListing(ctx, id)
	if err != nil {
		return err
	}
	if err := checkOwner(userID, current, "You can only delete your own listings!"); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("service: failed to delete listing %s: %w", id, notFoundOr(err))
	}
	return nil
}

// SearchListings returns one page of listings matching params
func (s *ListingService) SearchListings(ctx context.Context, params query.Params) (models.ListingPage, error) {
	listings, total, err := s.repo.Find(ctx, params)
	if err != nil {
		return models.ListingPage{}, fmt.Errorf("service: failed to search listings: %w", err)
	}
	return params.Page(listings, total), nil
}

// GetUserListings returns the listings of ownerID; callers may only list their own
func (s *ListingService) GetUserListings(ctx context.Context, callerID, ownerID string) ([]models.Listing, error) {
	if callerID == "" {
		return nil, fmt.Errorf("service: %w", listingerrors.Unauthorized("User ID is required"))
	}
	if callerID != ownerID {
		return nil, fmt.Errorf("service: %w", listingerrors.Unauthorized("You can only view your own listings!"))
	}

	listings, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get listings of user %s: %w", ownerID, err)
	}
	return listings, nil
}

// Ping reports whether the listing store is reachable
func (s *ListingService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func checkOwner(userID string, listing models.Listing, message string) error {
	if userID == "" {
		return fmt.Errorf("service: %w", listingerrors.Unauthorized("User ID is required"))
	}
	if userID != listing.UserRef {
		return fmt.Errorf("service: %w", listingerrors.Unauthorized(message))
	}
	return nil
}

func listingNotFound() error {
	return listingerrors.NotFound("Listing not found!")
}

// notFoundOr replaces a storage not-found with the client-facing error
func notFoundOr(err error) error {
	if errors.Is(err, listingerrors.ErrNotFound) {
		return listingNotFound()
	}
	return err
}

// validateListing checks the stored-document invariants.
// discountPrice < regularPrice is a client-side rule and is not checked here.
func validateListing(l models.Listing) error {
	switch {
	case strings.TrimSpace(l.Name) == "":
		return listingerrors.Validation("name is required")
	case strings.TrimSpace(l.Description) == "":
		return listingerrors.Validation("description is required")
	case strings.TrimSpace(l.Address) == "":
		return listingerrors.Validation("address is required")
	case l.Type != models.TypeSale && l.Type != models.TypeRent:
		return listingerrors.Validation("type must be %q or %q", models.TypeSale, models.TypeRent)
	case l.Bedrooms < 1:
		return listingerrors.Validation("bedrooms must be at least 1")
	case l.Bathrooms < 1:
		return listingerrors.Validation("bathrooms must be at least 1")
	case l.RegularPrice < 50:
		return listingerrors.Validation("regularPrice must be at least 50")
	case l.DiscountPrice < 0:
		return listingerrors.Validation("discountPrice must not be negative")
	case len(l.ImageURLs) == 0:
		return listingerrors.Validation("at least one image is required")
	case len(l.ImageURLs) > models.MaxImages:
		return listingerrors.Validation("a listing can have at most %d images", models.MaxImages)
	}
	for _, u := range l.ImageURLs {
		if strings.TrimSpace(u) == "" {
			return listingerrors.Validation("image urls must not be empty")
		}
	}
	return nil
}
