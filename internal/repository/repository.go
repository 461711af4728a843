package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"listing-marketplace/internal/listingerrors"
	"listing-marketplace/internal/models"
	"listing-marketplace/internal/query"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// ListingDB defines the listing storage interface.
// Update and Delete only touch a document whose id and owner both match.
type ListingDB interface {
	Create(ctx context.Context, listing models.Listing) error
	GetByID(ctx context.Context, id string) (models.Listing, error)
	Update(ctx context.Context, listing models.Listing) error
	Delete(ctx context.Context, id, userRef string) error
	Find(ctx context.Context, params query.Params) ([]models.Listing, int64, error)
	FindByOwner(ctx context.Context, userRef string) ([]models.Listing, error)
	Ping(ctx context.Context) error
}

// MemoryRepo is a concurrency-safe in-memory implementation of ListingDB
type MemoryRepo struct {
	mu       sync.RWMutex
	listings map[string]models.Listing // key: listing ID
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		listings: make(map[string]models.Listing),
	}
}

// Create stores a new listing
func (r *MemoryRepo) Create(_ context.Context, listing models.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if listing.ID == "" {
		return fmt.Errorf("create listing: %w", listingerrors.Validation("listing id is required"))
	}
	if _, exists := r.listings[listing.ID]; exists {
		return fmt.Errorf("create listing %s: duplicate id", listing.ID)
	}
	r.listings[listing.ID] = clone(listing)
	return nil
}

// GetByID returns a listing by its ID
func (r *MemoryRepo) GetByID(_ context.Context, id string) (models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listing, ok := r.listings[id]
	if !ok {
		return models.Listing{}, fmt.Errorf("get listing %s: %w", id, listingerrors.ErrNotFound)
	}
	return clone(listing), nil
}

// Update replaces a listing owned by listing.UserRef
func (r *MemoryRepo) Update(_ context.Context, listing models.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.listings[listing.ID]
	if !ok || current.UserRef != listing.UserRef {
		return fmt.Errorf("update listing %s: %w", listing.ID, listingerrors.ErrNotFound)
	}
	r.listings[listing.ID] = clone(listing)
	return nil
}

// Delete removes a listing owned by userRef
func (r *MemoryRepo) Delete(_ context.Context, id, userRef string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.listings[id]
	if !ok || current.UserRef != userRef {
		return fmt.Errorf("delete listing %s: %w", id, listingerrors.ErrNotFound)
	}
	delete(r.listings, id)
	return nil
}

// Find returns one page of listings matching params and the total match count
func (r *MemoryRepo) Find(_ context.Context, params query.Params) ([]models.Listing, int64, error) {
	r.mu.RLock()
	matched := make([]models.Listing, 0, len(r.listings))
	for _, l := range r.listings {
		if params.Matches(l) {
			matched = append(matched, l)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return params.Less(matched[i], matched[j]) })

	total := int64(len(matched))
	start := min(params.StartIndex, len(matched))
	end := start + min(params.PageSize(), len(matched)-start)

	page := make([]models.Listing, 0, end-start)
	for _, l := range matched[start:end] {
		page = append(page, clone(l))
	}
	return page, total, nil
}

// FindByOwner returns every listing created by userRef, newest first
func (r *MemoryRepo) FindByOwner(_ context.Context, userRef string) ([]models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := make([]models.Listing, 0)
	for _, l := range r.listings {
		if l.UserRef == userRef {
			owned = append(owned, clone(l))
		}
	}
	byNewest := query.Default()
	sort.Slice(owned, func(i, j int) bool { return byNewest.Less(owned[i], owned[j]) })
	return owned, nil
}

// Ping always succeeds for the in-memory store
func (r *MemoryRepo) Ping(context.Context) error { return nil }

// clone copies the image slice so callers cannot mutate stored state
func clone(l models.Listing) models.Listing {
	l.ImageURLs = append([]string(nil), l.ImageURLs...)
	return l
}
