package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"listing-marketplace/internal/listingerrors"
	"listing-marketplace/internal/models"
	"listing-marketplace/internal/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ListingsCollection is the MongoDB collection holding listing documents
const ListingsCollection = "listings"

// MongoRepo stores listings as documents in a MongoDB collection
type MongoRepo struct {
	coll *mongo.Collection
}

// NewMongoRepo creates a repository on the listings collection of db
func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{coll: db.Collection(ListingsCollection)}
}

// EnsureIndexes creates the indexes used by search and owner lookups
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userRef", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "offer", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("ensure listing indexes: %w", err)
	}
	return nil
}

// Create inserts a new listing document
func (r *MongoRepo) Create(ctx context.Context, listing models.Listing) error {
	if _, err := r.coll.InsertOne(ctx, listing); err != nil {
		return fmt.Errorf("create listing %s: %w", listing.ID, err)
	}
	return nil
}

// GetByID returns a listing by its ID
func (r *MongoRepo) GetByID(ctx context.Context, id string) (models.Listing, error) {
	var listing models.Listing
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&listing)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Listing{}, fmt.Errorf("get listing %s: %w", id, listingerrors.ErrNotFound)
	}
	if err != nil {
		return models.Listing{}, fmt.Errorf("get listing %s: %w", id, err)
	}
	return listing, nil
}

// Update replaces the document matching both id and owner
func (r *MongoRepo) Update(ctx context.Context, listing models.Listing) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": listing.ID, "userRef": listing.UserRef}, listing)
	if err != nil {
		return fmt.Errorf("update listing %s: %w", listing.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update listing %s: %w", listing.ID, listingerrors.ErrNotFound)
	}
	return nil
}

// Delete removes the document matching both id and owner
func (r *MongoRepo) Delete(ctx context.Context, id, userRef string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "userRef": userRef})
	if err != nil {
		return fmt.Errorf("delete listing %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete listing %s: %w", id, listingerrors.ErrNotFound)
	}
	return nil
}

// Find returns one page of listings matching params and the total match count
func (r *MongoRepo) Find(ctx context.Context, params query.Params) ([]models.Listing, int64, error) {
	filter := mongoFilter(params)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count listings: %w", err)
	}

	opts := options.Find().
		SetSort(mongoSort(params)).
		SetSkip(int64(params.StartIndex)).
		SetLimit(int64(params.PageSize()))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find listings: %w", err)
	}

	listings := make([]models.Listing, 0)
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, 0, fmt.Errorf("decode listings: %w", err)
	}
	return listings, total, nil
}

// FindByOwner returns every listing created by userRef, newest first
func (r *MongoRepo) FindByOwner(ctx context.Context, userRef string) ([]models.Listing, error) {
	opts := options.Find().SetSort(mongoSort(query.Default()))
	cursor, err := r.coll.Find(ctx, bson.M{"userRef": userRef}, opts)
	if err != nil {
		return nil, fmt.Errorf("find listings of %s: %w", userRef, err)
	}

	listings := make([]models.Listing, 0)
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("decode listings of %s: %w", userRef, err)
	}
	return listings, nil
}

// Ping checks the primary is reachable
func (r *MongoRepo) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, readpref.Primary())
}

// mongoFilter renders the filter part of params. The search term is matched literally.
func mongoFilter(p query.Params) bson.M {
	filter := bson.M{}
	if p.SearchTerm != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(p.SearchTerm), "$options": "i"}
	}
	if p.Type != "" {
		filter["type"] = p.Type
	}
	if p.Offer {
		filter["offer"] = true
	}
	if p.Furnished {
		filter["furnished"] = true
	}
	if p.Parking {
		filter["parking"] = true
	}
	return filter
}

func mongoSort(p query.Params) bson.D {
	dir := 1
	if p.Desc {
		dir = -1
	}
	return bson.D{{Key: p.Sort, Value: dir}, {Key: "_id", Value: 1}}
}
