package bookingRepo

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

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a new instance of BookingRepository using MongoDB.
func NewMongoBookingRepo() BookingRepository {
	coll := database.Collection("bookings")
	repo := &MongoBookingRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create booking indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "massager_id", Value: 1}, {Key: "date", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "transaction_id", Value: 1}}, Options: options.Index().SetSparse(true)},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new booking document.
func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by its unique ID.
func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

// GetByTransactionID retrieves the booking carrying a transaction reference.
func (r *MongoBookingRepo) GetByTransactionID(ctx context.Context, transactionID string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"transaction_id": transactionID})
}

func (r *MongoBookingRepo) findOne(ctx context.Context, filter bson.M) (*models.Booking, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, filter).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return &booking, nil
}

// FindActiveByMassagerDate returns the bookings that block new windows for a
// massager on a calendar date.
func (r *MongoBookingRepo) FindActiveByMassagerDate(ctx context.Context, massagerID, date string) ([]models.Booking, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"massager_id": massagerID,
		"date":        date,
		"status":      bson.M{"$in": []models.BookingStatus{models.StatusConfirmed, models.StatusInProgress}},
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query active bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode active bookings: %w", err)
	}
	return bookings, nil
}

// UpdateStatus transitions a booking's status only if it is still in the
// expected prior state.
func (r *MongoBookingRepo) UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus, reason string) (bool, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"status": to, "updated_at": time.Now()}
	if to == models.StatusCancelled && reason != "" {
		set["cancellation_reason"] = reason
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id, "status": from}, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("failed to update booking status: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

// SetPaymentReference records the active transaction reference and payer phone.
func (r *MongoBookingRepo) SetPaymentReference(ctx context.Context, id, transactionID, phone string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"transaction_id": transactionID,
		"telebirr_phone": phone,
		"updated_at":     time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set payment reference: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkPaidIfPending moves payment_status pending -> paid. One-way guard: a
// replayed success event matches zero documents and reports false.
func (r *MongoBookingRepo) MarkPaidIfPending(ctx context.Context, id, confirmedBy string) (bool, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"payment_status": models.PaymentPaid, "updated_at": time.Now()}
	if confirmedBy != "" {
		set["payment_confirmed_by"] = confirmedBy
	}

	filter := bson.M{"id": id, "payment_status": models.PaymentPending}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("failed to mark booking paid: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

// MarkPaymentFailedIfPending moves payment_status pending -> failed.
func (r *MongoBookingRepo) MarkPaymentFailedIfPending(ctx context.Context, id string) (bool, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "payment_status": models.PaymentPending}
	update := bson.M{"$set": bson.M{"payment_status": models.PaymentFailed, "updated_at": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to mark payment failed: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

// MarkRefundedIfPaid moves payment_status paid -> refunded.
func (r *MongoBookingRepo) MarkRefundedIfPaid(ctx context.Context, id string) (bool, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "payment_status": models.PaymentPaid}
	update := bson.M{"$set": bson.M{"payment_status": models.PaymentRefunded, "updated_at": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to mark payment refunded: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

// ConfirmIfPending advances status pending -> confirmed. A booking cancelled
// before the payment event lands stays cancelled.
func (r *MongoBookingRepo) ConfirmIfPending(ctx context.Context, id string) (bool, error) {
	return r.UpdateStatus(ctx, id, models.StatusPending, models.StatusConfirmed, "")
}

// SetContactShared records that the massager's contact was shared with the client.
func (r *MongoBookingRepo) SetContactShared(ctx context.Context, id string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"contact_shared": true, "updated_at": time.Now()}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update); err != nil {
		return fmt.Errorf("failed to set contact shared: %w", err)
	}
	return nil
}

// ListByClient returns a page of a client's bookings, newest first.
func (r *MongoBookingRepo) ListByClient(ctx context.Context, clientID string, page, limit int) ([]models.Booking, int64, error) {
	return r.list(ctx, bson.M{"client_id": clientID}, page, limit)
}

// ListByMassager returns a page of a massager's bookings, newest first.
func (r *MongoBookingRepo) ListByMassager(ctx context.Context, massagerID string, page, limit int) ([]models.Booking, int64, error) {
	return r.list(ctx, bson.M{"massager_id": massagerID}, page, limit)
}

// ListPendingPayments returns bookings awaiting payment, for the admin view.
func (r *MongoBookingRepo) ListPendingPayments(ctx context.Context, page, limit int) ([]models.Booking, int64, error) {
	filter := bson.M{
		"status":         models.StatusPending,
		"payment_status": models.PaymentPending,
	}
	return r.list(ctx, filter, page, limit)
}

// ListPaymentHistory returns a client's bookings with a settled payment.
func (r *MongoBookingRepo) ListPaymentHistory(ctx context.Context, clientID string, page, limit int) ([]models.Booking, int64, error) {
	filter := bson.M{
		"client_id": clientID,
		"payment_status": bson.M{"$in": []models.PaymentStatus{
			models.PaymentPaid, models.PaymentFailed, models.PaymentRefunded,
		}},
	}
	return r.list(ctx, filter, page, limit)
}

func (r *MongoBookingRepo) list(ctx context.Context, filter bson.M, page, limit int) ([]models.Booking, int64, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, total, nil
}

// FindStalePendingPayments lists bookings whose payment never resolved.
func (r *MongoBookingRepo) FindStalePendingPayments(ctx context.Context, cutoff time.Time) ([]models.Booking, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"payment_status": models.PaymentPending,
		"transaction_id": bson.M{"$exists": true, "$ne": ""},
		"created_at":     bson.M{"$lt": cutoff},
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale pending payments: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode stale pending payments: %w", err)
	}
	return bookings, nil
}
