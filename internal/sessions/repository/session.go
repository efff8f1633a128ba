package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sessionserrors "courtbook/internal/sessions/errors"
	"courtbook/pkg/config"
	"courtbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Sessions"
)

type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	FindByID(ctx context.Context, id string) (*model.Session, error)
	FindAll(ctx context.Context) ([]*model.Session, error)
	Update(ctx context.Context, id string, update model.SessionUpdate) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type mongoSessionRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSessionRepository(cfg *config.Config) SessionRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSessionRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout keeps the caller's deadline when it is sooner than timeout.
func (r *mongoSessionRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoSessionRepository) Create(ctx context.Context, session *model.Session) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	session.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if session.Slots == nil {
		session.Slots = []model.Slot{}
	}

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		session.ID = oid.Hex()
	}
	return nil
}

func (r *mongoSessionRepository) FindByID(ctx context.Context, id string) (*model.Session, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := objectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var session model.Session
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, sessionserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	return &session, nil
}

// FindAll returns every session by date, then start time.
func (r *mongoSessionRepository) FindAll(ctx context.Context) ([]*model.Session, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find sessions: %w", err)
	}
	defer cursor.Close(ctx)

	sessions := []*model.Session{}
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}

	return sessions, nil
}

// Update writes only the fields set in update. The document is not
// versioned, so a concurrent writer's changes to the same fields are lost.
func (r *mongoSessionRepository) Update(ctx context.Context, id string, update model.SessionUpdate) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := objectIDFromHex(id)
	if err != nil {
		return err
	}

	set := buildSet(update)
	if len(set) == 0 {
		return nil
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	if result.MatchedCount == 0 {
		return sessionserrors.ErrNotFound
	}

	return nil
}

func (r *mongoSessionRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := objectIDFromHex(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if result.DeletedCount == 0 {
		return sessionserrors.ErrNotFound
	}

	return nil
}

func (r *mongoSessionRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}

func objectIDFromHex(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", sessionserrors.ErrInvalidID, id)
	}
	return objectID, nil
}

func buildSet(update model.SessionUpdate) bson.M {
	set := bson.M{}
	if update.Slots != nil {
		set["slots"] = *update.Slots
	}
	if update.TotalAmount != nil {
		set["total_amount"] = *update.TotalAmount
	}
	if update.IsPaid != nil {
		set["is_paid"] = *update.IsPaid
	}
	if update.IndividualCosts != nil {
		set["individual_costs"] = *update.IndividualCosts
	}
	if update.CostPerPerson != nil {
		set["cost_per_person"] = *update.CostPerPerson
	}
	if update.SplitMode != nil {
		set["split_mode"] = *update.SplitMode
	}
	if update.FinalizedAt != nil {
		set["finalized_at"] = *update.FinalizedAt
	}
	return set
}
