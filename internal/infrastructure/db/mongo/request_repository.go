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

type RequestRepository struct {
	coll *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{coll: db.Collection(collectionRequests)}
}

var _ ports.RequestRepository = (*RequestRepository)(nil)

// requestDoc stores Open alongside Status so the partial unique index can
// cover only pending and accepted requests.
type requestDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	ServiceID         string             `bson:"service_id"`
	CustomerID        string             `bson:"customer_id"`
	ProviderID        string             `bson:"provider_id"`
	Status            string             `bson:"status"`
	Open              bool               `bson:"open"`
	Message           string             `bson:"message,omitempty"`
	RequestedDate     *time.Time         `bson:"requested_date,omitempty"`
	EstimatedDuration *int               `bson:"estimated_duration,omitempty"`
	CreatedAt         time.Time          `bson:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at"`
}

func (d *requestDoc) toDomain() *domain.ServiceRequest {
	var requested *time.Time
	if d.RequestedDate != nil {
		t := d.RequestedDate.UTC()
		requested = &t
	}
	return &domain.ServiceRequest{
		ID:                d.ID.Hex(),
		ServiceID:         d.ServiceID,
		CustomerID:        d.CustomerID,
		ProviderID:        d.ProviderID,
		Status:            domain.RequestStatus(d.Status),
		Message:           d.Message,
		RequestedDate:     requested,
		EstimatedDuration: d.EstimatedDuration,
		CreatedAt:         d.CreatedAt.UTC(),
		UpdatedAt:         d.UpdatedAt.UTC(),
	}
}

func requestIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "service_id", Value: 1}, {Key: "customer_id", Value: 1}},
			Options: options.Index().
				SetName("uniq_open_request").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"open": true}),
		},
		{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "provider_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
}

// Create inserts a request. A duplicate on the open-request index means
// another open request for the pair was stored first.
func (r *RequestRepository) Create(ctx context.Context, req *domain.ServiceRequest) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, requestDoc{
		ServiceID:         req.ServiceID,
		CustomerID:        req.CustomerID,
		ProviderID:        req.ProviderID,
		Status:            string(req.Status),
		Open:              req.Status.IsOpen(),
		Message:           req.Message,
		RequestedDate:     req.RequestedDate,
		EstimatedDuration: req.EstimatedDuration,
		CreatedAt:         req.CreatedAt,
		UpdatedAt:         req.UpdatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrOpenRequestExists
		}
		return fmt.Errorf("insert request: %w", err)
	}
	req.ID = insertedID(res)
	return nil
}

func (r *RequestRepository) FindByID(ctx context.Context, id string) (*domain.ServiceRequest, error) {
	oid, err := objectID(id, domain.ErrRequestNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc requestDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("find request: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *RequestRepository) ExistsOpen(ctx context.Context, serviceID, customerID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx,
		bson.M{"service_id": serviceID, "customer_id": customerID, "open": true},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, fmt.Errorf("count open requests: %w", err)
	}
	return n > 0, nil
}

// UpdateStatus is a compare-and-set on the status field.
func (r *RequestRepository) UpdateStatus(ctx context.Context, id string, from, to domain.RequestStatus, at time.Time) error {
	oid, err := objectID(id, domain.ErrRequestNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to), "open": to.IsOpen(), "updated_at": at}},
	)
	if err != nil {
		// Reopening a request collides with a newer open one for the pair.
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrOpenRequestExists
		}
		return fmt.Errorf("update request status: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid})
		if err != nil {
			return fmt.Errorf("update request status: %w", err)
		}
		if n == 0 {
			return domain.ErrRequestNotFound
		}
		return domain.ErrStatusChanged
	}
	return nil
}

// List returns a page of requests for one party, newest first.
func (r *RequestRepository) List(ctx context.Context, f ports.RequestFilter) ([]*domain.ServiceRequest, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.CustomerID != "" {
		filter["customer_id"] = f.CustomerID
	}
	if f.ProviderID != "" {
		filter["provider_id"] = f.ProviderID
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count requests: %w", err)
	}

	opts := skipLimit(f.Page, f.Limit).SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find requests: %w", err)
	}
	var docs []requestDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode requests: %w", err)
	}

	out := make([]*domain.ServiceRequest, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, total, nil
}
