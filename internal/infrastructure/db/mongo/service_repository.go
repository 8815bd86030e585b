package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/localpro/marketplace-api/internal/core/domain"
	"github.com/localpro/marketplace-api/internal/core/ports"
)

type ServiceRepository struct {
	coll *mongo.Collection
}

func NewServiceRepository(db *mongo.Database) *ServiceRepository {
	return &ServiceRepository{coll: db.Collection(collectionServices)}
}

var _ ports.ServiceRepository = (*ServiceRepository)(nil)

type serviceDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	ProviderID  string             `bson:"provider_id"`
	CategoryID  string             `bson:"category_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	PriceType   string             `bson:"price_type"`
	Location    string             `bson:"location,omitempty"`
	IsActive    bool               `bson:"is_active"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *serviceDoc) toDomain() *domain.Service {
	return &domain.Service{
		ID:          d.ID.Hex(),
		ProviderID:  d.ProviderID,
		CategoryID:  d.CategoryID,
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		PriceType:   domain.PriceType(d.PriceType),
		Location:    d.Location,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func serviceIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "provider_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "category_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
}

func (r *ServiceRepository) Create(ctx context.Context, s *domain.Service) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, serviceDoc{
		ProviderID:  s.ProviderID,
		CategoryID:  s.CategoryID,
		Title:       s.Title,
		Description: s.Description,
		Price:       s.Price,
		PriceType:   string(s.PriceType),
		Location:    s.Location,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	s.ID = insertedID(res)
	return nil
}

func (r *ServiceRepository) FindByID(ctx context.Context, id string) (*domain.Service, error) {
	oid, err := objectID(id, domain.ErrServiceNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc serviceDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, fmt.Errorf("find service: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ServiceRepository) Update(ctx context.Context, s *domain.Service) error {
	oid, err := objectID(s.ID, domain.ErrServiceNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"category_id": s.CategoryID,
		"title":       s.Title,
		"description": s.Description,
		"price":       s.Price,
		"price_type":  string(s.PriceType),
		"location":    s.Location,
		"is_active":   s.IsActive,
		"updated_at":  s.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrServiceNotFound
	}
	return nil
}

// List returns a page of services, newest first, and the total match count.
func (r *ServiceRepository) List(ctx context.Context, f ports.ServiceFilter) ([]*domain.Service, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := serviceFilter(f)
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count services: %w", err)
	}

	opts := skipLimit(f.Page, f.Limit).SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find services: %w", err)
	}
	var docs []serviceDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode services: %w", err)
	}

	out := make([]*domain.Service, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, total, nil
}

func serviceFilter(f ports.ServiceFilter) bson.M {
	filter := bson.M{}
	if !f.IncludeInactive {
		filter["is_active"] = true
	}
	if f.CategoryID != "" {
		filter["category_id"] = f.CategoryID
	}
	if f.ProviderID != "" {
		filter["provider_id"] = f.ProviderID
	}
	if f.PriceType != "" {
		filter["price_type"] = string(f.PriceType)
	}
	if f.Search != "" {
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	return filter
}
