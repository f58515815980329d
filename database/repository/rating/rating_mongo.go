package ratingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dimple/database"
	"dimple/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicate is returned when the booking already has a rating.
	ErrDuplicate = errors.New("booking already rated")
	// ErrNotFound is returned when no rating matches the lookup.
	ErrNotFound = errors.New("rating not found")
)

// RatingRepository defines the interface for rating data access.
type RatingRepository interface {
	// CreateWithRecalc inserts the rating and recomputes the massager's
	// average and count in the same transaction, scoped to that massager only.
	CreateWithRecalc(ctx context.Context, rating *models.Rating) error
	GetByBookingID(ctx context.Context, bookingID string) (*models.Rating, error)
	ListByMassager(ctx context.Context, massagerID string, page, limit int) ([]models.Rating, int64, error)
}

// MongoRatingRepo implements RatingRepository using MongoDB. It holds both the
// ratings and massagers collections so the insert and the derived-average
// update commit together.
type MongoRatingRepo struct {
	ratingColl   *mongo.Collection
	massagerColl *mongo.Collection
}

// NewMongoRatingRepo creates a new instance of RatingRepository using MongoDB.
func NewMongoRatingRepo() RatingRepository {
	repo := &MongoRatingRepo{
		ratingColl:   database.Collection("ratings"),
		massagerColl: database.Collection("massagers"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create rating indexes: %v\n", err)
	}
	return repo
}

func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

func (r *MongoRatingRepo) ensureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "booking_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "massager_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	if _, err := r.ratingColl.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// CreateWithRecalc inserts the rating and refreshes the massager's derived
// rating stats transactionally.
func (r *MongoRatingRepo) CreateWithRecalc(ctx context.Context, rating *models.Rating) error {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	rating.CreatedAt = time.Now()

	client := r.ratingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.ratingColl.InsertOne(sc, rating); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, ErrDuplicate
			}
			return nil, fmt.Errorf("insert rating failed: %w", err)
		}

		avg, count, err := r.aggregateForMassager(sc, rating.MassagerID)
		if err != nil {
			return nil, err
		}

		update := bson.M{"$set": bson.M{
			"rating_average": avg,
			"rating_count":   count,
			"updated_at":     time.Now(),
		}}
		// Ratings reference the massager's account id; the profile is keyed
		// by user_id.
		if _, err := r.massagerColl.UpdateOne(sc, bson.M{"user_id": rating.MassagerID}, update); err != nil {
			return nil, fmt.Errorf("update massager rating stats failed: %w", err)
		}
		return nil, nil
	}

	if _, err := sess.WithTransaction(ctx, txnFn); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return ErrDuplicate
		}
		return fmt.Errorf("rating transaction failed: %w", err)
	}
	return nil
}

func (r *MongoRatingRepo) aggregateForMassager(ctx context.Context, massagerID string) (float64, int, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "massager_id", Value: massagerID}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$massager_id"},
			{Key: "average", Value: bson.D{{Key: "$avg", Value: "$score"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.ratingColl.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("aggregate ratings failed: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Average float64 `bson:"average"`
		Count   int     `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, 0, fmt.Errorf("decode rating aggregate failed: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, nil
	}
	return results[0].Average, results[0].Count, nil
}

// GetByBookingID retrieves the rating attached to a booking, if any.
func (r *MongoRatingRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.Rating, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var rating models.Rating
	if err := r.ratingColl.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&rating); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch rating: %w", err)
	}
	return &rating, nil
}

// ListByMassager returns a page of a massager's ratings, newest first.
func (r *MongoRatingRepo) ListByMassager(ctx context.Context, massagerID string, page, limit int) ([]models.Rating, int64, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	filter := bson.M{"massager_id": massagerID}
	total, err := r.ratingColl.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count ratings: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.ratingColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var ratings []models.Rating
	if err := cursor.All(ctx, &ratings); err != nil {
		return nil, 0, fmt.Errorf("failed to decode ratings: %w", err)
	}
	return ratings, total, nil
}
