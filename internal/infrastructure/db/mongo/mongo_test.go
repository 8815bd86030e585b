package mongo

import (
	"errors"
	"math"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/localpro/marketplace-api/internal/core/domain"
	"github.com/localpro/marketplace-api/internal/core/ports"
)

func TestObjectID_MalformedIsNotFound(t *testing.T) {
	if _, err := objectID("not-hex", domain.ErrRequestNotFound); !errors.Is(err, domain.ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound, got %v", err)
	}

	oid := primitive.NewObjectID()
	got, err := objectID(oid.Hex(), domain.ErrRequestNotFound)
	if err != nil || got != oid {
		t.Fatalf("round trip failed: %v %v", got, err)
	}
}

func TestSkipLimit(t *testing.T) {
	opts := skipLimit(3, 20)
	if *opts.Skip != 40 || *opts.Limit != 20 {
		t.Errorf("page 3 limit 20: skip=%d limit=%d", *opts.Skip, *opts.Limit)
	}
	if opts := skipLimit(0, 10); *opts.Skip != 0 {
		t.Errorf("page 0 must clamp to the first page, skip=%d", *opts.Skip)
	}

	huge := skipLimit(math.MaxInt/64, 100)
	if *huge.Skip < 0 {
		t.Errorf("huge page overflowed: skip=%d", *huge.Skip)
	}
	if *huge.Limit != 100 {
		t.Errorf("huge page limit: got %d", *huge.Limit)
	}
}

func TestServiceFilter(t *testing.T) {
	lo, hi := 10.0, 50.0
	f := serviceFilter(ports.ServiceFilter{
		CategoryID: "cat-1",
		Search:     "a+b",
		PriceType:  domain.PriceHourly,
		MinPrice:   &lo,
		MaxPrice:   &hi,
	})

	if f["is_active"] != true {
		t.Error("public filter must require is_active")
	}
	if f["category_id"] != "cat-1" || f["price_type"] != "hourly" {
		t.Errorf("unexpected filter %v", f)
	}
	re, ok := f["title"].(primitive.Regex)
	if !ok || re.Pattern != `a\+b` || re.Options != "i" {
		t.Errorf("search must be a quoted case-insensitive regex, got %#v", f["title"])
	}
	price, ok := f["price"].(bson.M)
	if !ok || price["$gte"] != 10.0 || price["$lte"] != 50.0 {
		t.Errorf("price range: %#v", f["price"])
	}

	owner := serviceFilter(ports.ServiceFilter{ProviderID: "p-1", IncludeInactive: true})
	if _, ok := owner["is_active"]; ok {
		t.Error("owner filter must not restrict is_active")
	}
	if _, ok := owner["price"]; ok {
		t.Error("no price bounds expected")
	}
}
