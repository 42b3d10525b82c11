package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carhub/listings-api/internal/core/domain"
	"github.com/carhub/listings-api/internal/core/ports"
)

const carsCollection = "cars"

type CarRepository struct {
	coll *mongo.Collection
}

func NewCarRepository(db *mongo.Database) *CarRepository {
	return &CarRepository{coll: db.Collection(carsCollection)}
}

type mongoCar struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      primitive.ObjectID `bson:"user_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Tags        []string           `bson:"tags"`
	Images      []string           `bson:"images"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (mc *mongoCar) toDomain() *domain.Car {
	return &domain.Car{
		ID:          mc.ID.Hex(),
		UserID:      mc.UserID.Hex(),
		Title:       mc.Title,
		Description: mc.Description,
		Tags:        mc.Tags,
		Images:      mc.Images,
		CreatedAt:   mc.CreatedAt,
		UpdatedAt:   mc.UpdatedAt,
	}
}

// Create inserts a new car document owned by car.UserID.
func (r *CarRepository) Create(ctx context.Context, car *domain.Car) (*domain.Car, error) {
	ownerID, err := primitive.ObjectIDFromHex(car.UserID)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	doc := mongoCar{
		UserID:      ownerID,
		Title:       car.Title,
		Description: car.Description,
		Tags:        car.Tags,
		Images:      car.Images,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert car: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *CarRepository) FindAllByOwner(ctx context.Context, ownerID string) ([]*domain.Car, error) {
	oid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	return r.findAll(ctx, bson.M{"user_id": oid})
}

func (r *CarRepository) FindByID(ctx context.Context, ownerID, id string) (*domain.Car, error) {
	filter, err := ownerScopedFilter(ownerID, id)
	if err != nil {
		return nil, err
	}

	var mc mongoCar
	if err := r.coll.FindOne(ctx, filter).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCarNotFound
		}
		return nil, fmt.Errorf("find car: %w", err)
	}
	return mc.toDomain(), nil
}

// SearchByTitle matches the keyword as a case-insensitive substring of the
// title, scoped to the owner. The keyword is quoted so regex metacharacters
// in user input match literally.
func (r *CarRepository) SearchByTitle(ctx context.Context, ownerID, keyword string) ([]*domain.Car, error) {
	oid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	filter := bson.M{
		"user_id": oid,
		"title":   primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"},
	}
	return r.findAll(ctx, filter)
}

// UpdateByID applies the patch in a single findOneAndUpdate conditioned on
// id+owner, so ownership verification and mutation cannot interleave with a
// concurrent request. Title, description and tags always overwrite; images
// only when the patch supplies them.
func (r *CarRepository) UpdateByID(ctx context.Context, ownerID, id string, patch ports.CarPatch) (*domain.Car, error) {
	filter, err := ownerScopedFilter(ownerID, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"title":       patch.Title,
		"description": patch.Description,
		"tags":        patch.Tags,
		"updated_at":  time.Now().UTC(),
	}
	if patch.Images != nil {
		set["images"] = patch.Images
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mc mongoCar
	if err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCarNotFound
		}
		return nil, fmt.Errorf("update car: %w", err)
	}
	return mc.toDomain(), nil
}

// DeleteByID removes the document in a single findOneAndDelete conditioned on
// id+owner and returns the removed state for blob cleanup.
func (r *CarRepository) DeleteByID(ctx context.Context, ownerID, id string) (*domain.Car, error) {
	filter, err := ownerScopedFilter(ownerID, id)
	if err != nil {
		return nil, err
	}

	var mc mongoCar
	if err := r.coll.FindOneAndDelete(ctx, filter).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCarNotFound
		}
		return nil, fmt.Errorf("delete car: %w", err)
	}
	return mc.toDomain(), nil
}

// EnsureIndexes creates indexes backing the owner-scoped queries.
func (r *CarRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "title", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *CarRepository) findAll(ctx context.Context, filter bson.M) ([]*domain.Car, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find cars: %w", err)
	}
	defer cursor.Close(ctx)

	cars := []*domain.Car{}
	for cursor.Next(ctx) {
		var mc mongoCar
		if err := cursor.Decode(&mc); err != nil {
			return nil, fmt.Errorf("decode car: %w", err)
		}
		cars = append(cars, mc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate cars: %w", err)
	}
	return cars, nil
}

// ownerScopedFilter builds the {_id, user_id} filter used by every by-id
// operation. A malformed id cannot reference any document, so it maps to
// ErrCarNotFound rather than an internal error.
func ownerScopedFilter(ownerID, id string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCarNotFound
	}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, domain.ErrCarNotFound
	}
	return bson.M{"_id": oid, "user_id": owner}, nil
}
