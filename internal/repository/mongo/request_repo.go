package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"everskills/coaching-app/internal/domain"
	"everskills/coaching-app/internal/repository"
)

const requestCollectionName = "requests"

// mongoRequestRepository implements repository.RequestRepository
type mongoRequestRepository struct {
	collection *mongo.Collection
}

// NewMongoRequestRepository creates a new Request repository backed by MongoDB.
func NewMongoRequestRepository(db *mongo.Database) repository.RequestRepository {
	return &mongoRequestRepository{
		collection: db.Collection(requestCollectionName),
	}
}

// Create inserts a new request into the database.
func (r *mongoRequestRepository) Create(ctx context.Context, req *domain.Request) (string, error) {
	now := time.Now().UTC()
	req.ID = repository.NewID("req")
	req.LearnerEmail = domain.NormalizeEmail(req.LearnerEmail)
	req.CreatedAt = now
	req.UpdatedAt = now
	if req.Status == "" {
		req.Status = domain.RequestSubmitted
	}
	if req.Supports == nil {
		req.Supports = []domain.Support{}
	}

	if _, err := r.collection.InsertOne(ctx, req); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", repository.ErrDuplicate
		}
		return "", err
	}
	return req.ID, nil
}

func (r *mongoRequestRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	var req domain.Request
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *mongoRequestRepository) find(ctx context.Context, filter bson.M) ([]domain.Request, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	requests := []domain.Request{}
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *mongoRequestRepository) List(ctx context.Context) ([]domain.Request, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoRequestRepository) ListByLearner(ctx context.Context, learnerEmail string) ([]domain.Request, error) {
	return r.find(ctx, bson.M{"learner_email": domain.NormalizeEmail(learnerEmail)})
}

func (r *mongoRequestRepository) ListByCoach(ctx context.Context, coachEmail string) ([]domain.Request, error) {
	return r.find(ctx, bson.M{"coach_email": domain.NormalizeEmail(coachEmail)})
}

// Update replaces the stored request.
func (r *mongoRequestRepository) Update(ctx context.Context, req *domain.Request) error {
	req.UpdatedAt = time.Now().UTC()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": req.ID}, req)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureRequestIndexes creates necessary indexes for the requests collection.
func EnsureRequestIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "learner_email", Value: 1}}},
		{Keys: bson.D{{Key: "coach_email", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
