package massagerRepo

import (
	"context"
	"fmt"
	"time"

	"dimple/database"
	"dimple/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoMassagerRepo implements MassagerRepository using MongoDB.
type MongoMassagerRepo struct {
	coll *mongo.Collection
}

// NewMongoMassagerRepo creates a new instance of MassagerRepository using MongoDB.
func NewMongoMassagerRepo() MassagerRepository {
	coll := database.Collection("massagers")
	repo := &MongoMassagerRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create massager indexes: %v\n", err)
	}
	return repo
}

func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

func (r *MongoMassagerRepo) ensureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "specialties", Value: 1}}},
		{Keys: bson.D{{Key: "service_locations", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new massager profile.
func (r *MongoMassagerRepo) Create(ctx context.Context, profile *models.MassagerProfile) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, profile); err != nil {
		return fmt.Errorf("failed to create massager profile: %w", err)
	}
	return nil
}

// GetByID retrieves a massager profile by its unique ID.
func (r *MongoMassagerRepo) GetByID(ctx context.Context, id string) (*models.MassagerProfile, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

// GetByUserID retrieves the profile owned by a user account.
func (r *MongoMassagerRepo) GetByUserID(ctx context.Context, userID string) (*models.MassagerProfile, error) {
	return r.findOne(ctx, bson.M{"user_id": userID})
}

func (r *MongoMassagerRepo) findOne(ctx context.Context, filter bson.M) (*models.MassagerProfile, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var profile models.MassagerProfile
	if err := r.coll.FindOne(ctx, filter).Decode(&profile); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch massager profile: %w", err)
	}
	return &profile, nil
}

// List returns a page of massager profiles matching the discovery filters.
func (r *MongoMassagerRepo) List(ctx context.Context, filter models.MassagerFilter) ([]models.MassagerProfile, int64, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.Specialty != "" {
		query["specialties"] = filter.Specialty
	}
	if filter.Location != "" {
		query["service_locations"] = filter.Location
	}
	if filter.AvailableOnly {
		query["is_available"] = true
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count massagers: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "rating_average", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list massagers: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []models.MassagerProfile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, 0, fmt.Errorf("failed to decode massagers: %w", err)
	}
	return profiles, total, nil
}

// UpdateAvailability replaces a massager's recurring weekly schedule.
func (r *MongoMassagerRepo) UpdateAvailability(ctx context.Context, id string, availability []models.DayAvailability) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"weekly_availability": availability,
		"updated_at":          time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update availability for massager %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementCompletedSessions bumps the completed-session counter.
func (r *MongoMassagerRepo) IncrementCompletedSessions(ctx context.Context, id string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{"completed_sessions": 1},
		"$set": bson.M{"updated_at": time.Now()},
	}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update); err != nil {
		return fmt.Errorf("failed to increment completed sessions for massager %s: %w", id, err)
	}
	return nil
}
