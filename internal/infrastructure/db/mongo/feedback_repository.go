package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/localpro/marketplace-api/internal/core/domain"
	"github.com/localpro/marketplace-api/internal/core/ports"
)

type FeedbackRepository struct {
	coll *mongo.Collection
}

func NewFeedbackRepository(db *mongo.Database) *FeedbackRepository {
	return &FeedbackRepository{coll: db.Collection(collectionFeedback)}
}

var _ ports.FeedbackRepository = (*FeedbackRepository)(nil)

type feedbackDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	ServiceRequestID string             `bson:"service_request_id"`
	CustomerID       string             `bson:"customer_id"`
	ProviderID       string             `bson:"provider_id"`
	Rating           int                `bson:"rating"`
	Comment          string             `bson:"comment,omitempty"`
	IsVisible        bool               `bson:"is_visible"`
	CreatedAt        time.Time          `bson:"created_at"`
}

func (d *feedbackDoc) toDomain() *domain.Feedback {
	return &domain.Feedback{
		ID:               d.ID.Hex(),
		ServiceRequestID: d.ServiceRequestID,
		CustomerID:       d.CustomerID,
		ProviderID:       d.ProviderID,
		Rating:           d.Rating,
		Comment:          d.Comment,
		IsVisible:        d.IsVisible,
		CreatedAt:        d.CreatedAt.UTC(),
	}
}

func feedbackIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "service_request_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "provider_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
}

func (r *FeedbackRepository) Create(ctx context.Context, f *domain.Feedback) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, feedbackDoc{
		ServiceRequestID: f.ServiceRequestID,
		CustomerID:       f.CustomerID,
		ProviderID:       f.ProviderID,
		Rating:           f.Rating,
		Comment:          f.Comment,
		IsVisible:        f.IsVisible,
		CreatedAt:        f.CreatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrFeedbackExists
		}
		return fmt.Errorf("insert feedback: %w", err)
	}
	f.ID = insertedID(res)
	return nil
}

func (r *FeedbackRepository) ExistsForRequest(ctx context.Context, requestID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"service_request_id": requestID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count feedback: %w", err)
	}
	return n > 0, nil
}

// RatingsForProvider sums every rating the provider has, hidden or not.
func (r *FeedbackRepository) RatingsForProvider(ctx context.Context, providerID string) (int64, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"provider_id": providerID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"sum":   bson.M{"$sum": "$rating"},
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("aggregate ratings: %w", err)
	}

	var rows []struct {
		Sum   int64 `bson:"sum"`
		Count int64 `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, 0, fmt.Errorf("decode ratings: %w", err)
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Sum, rows[0].Count, nil
}

func (r *FeedbackRepository) ListVisibleForProvider(ctx context.Context, providerID string) ([]*domain.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"provider_id": providerID, "is_visible": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("find feedback: %w", err)
	}
	var docs []feedbackDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode feedback: %w", err)
	}

	out := make([]*domain.Feedback, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}
