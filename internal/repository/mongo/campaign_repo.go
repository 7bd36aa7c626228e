package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"everskills/coaching-app/internal/domain"
	"everskills/coaching-app/internal/repository"
)

const campaignCollectionName = "campaigns"

// mongoCampaignRepository implements repository.CampaignRepository.
// Writes replace the whole document, so the last writer wins just as with
// the JSON file store.
type mongoCampaignRepository struct {
	collection *mongo.Collection
}

// NewMongoCampaignRepository creates a Campaign repository backed by MongoDB.
func NewMongoCampaignRepository(db *mongo.Database) repository.CampaignRepository {
	return &mongoCampaignRepository{
		collection: db.Collection(campaignCollectionName),
	}
}

func (r *mongoCampaignRepository) findMany(ctx context.Context, filter bson.M) ([]domain.Campaign, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	campaigns := []domain.Campaign{}
	if err = cursor.All(ctx, &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (r *mongoCampaignRepository) findOne(ctx context.Context, filter bson.M) (*domain.Campaign, error) {
	var campaign domain.Campaign
	err := r.collection.FindOne(ctx, filter).Decode(&campaign)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &campaign, nil
}

func (r *mongoCampaignRepository) List(ctx context.Context) ([]domain.Campaign, error) {
	return r.findMany(ctx, bson.M{})
}

// SaveAll replaces the collection content with campaigns.
func (r *mongoCampaignRepository) SaveAll(ctx context.Context, campaigns []domain.Campaign) error {
	ids := make([]string, 0, len(campaigns))
	for i := range campaigns {
		c := campaigns[i]
		if c.ID == "" {
			return repository.ErrMissingID
		}
		ids = append(ids, c.ID)
		_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": c.ID}, c, options.Replace().SetUpsert(true))
		if err != nil {
			return err
		}
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$nin": ids}})
	return err
}

func (r *mongoCampaignRepository) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	return r.findOne(ctx, bson.M{"_id": strings.TrimSpace(id)})
}

func (r *mongoCampaignRepository) GetByRequestID(ctx context.Context, requestID string) (*domain.Campaign, error) {
	return r.findOne(ctx, bson.M{"request_id": strings.TrimSpace(requestID)})
}

func (r *mongoCampaignRepository) ListByCoach(ctx context.Context, coachEmail string) ([]domain.Campaign, error) {
	return r.findMany(ctx, bson.M{"coach_email": domain.NormalizeEmail(coachEmail)})
}

func (r *mongoCampaignRepository) ListByLearner(ctx context.Context, learnerEmail string) ([]domain.Campaign, error) {
	return r.findMany(ctx, bson.M{"learner_email": domain.NormalizeEmail(learnerEmail)})
}

func (r *mongoCampaignRepository) Upsert(ctx context.Context, campaign *domain.Campaign) error {
	now := time.Now().UTC()
	campaign.ID = strings.TrimSpace(campaign.ID)
	if campaign.ID == "" {
		campaign.ID = repository.NewID("camp")
	}
	if campaign.CreatedAt.IsZero() {
		campaign.CreatedAt = now
	}
	campaign.UpdatedAt = now
	campaign.LearnerEmail = domain.NormalizeEmail(campaign.LearnerEmail)
	campaign.CoachEmail = domain.NormalizeEmail(campaign.CoachEmail)

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": campaign.ID}, campaign, options.Replace().SetUpsert(true))
	return err
}

// EnsureCampaignIndexes creates the lookup indexes of the campaigns collection.
func EnsureCampaignIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "request_id", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "coach_email", Value: 1}}},
		{Keys: bson.D{{Key: "learner_email", Value: 1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
