package domain

import "time"

// PriceType describes how a service is billed.
type PriceType string

const (
	PriceHourly     PriceType = "hourly"
	PriceFixed      PriceType = "fixed"
	PriceNegotiable PriceType = "negotiable"
)

func (p PriceType) Valid() bool {
	switch p {
	case PriceHourly, PriceFixed, PriceNegotiable:
		return true
	}
	return false
}

// ServiceCategory is reference data; the core never writes it.
type ServiceCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
}

// Service is a listing published by exactly one provider. IsActive=false
// is the soft-delete marker.
type Service struct {
	ID          string    `json:"id"`
	ProviderID  string    `json:"provider_id"`
	CategoryID  string    `json:"category_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	PriceType   PriceType `json:"price_type"`
	Location    string    `json:"location,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnedBy reports whether providerID published s.
func (s *Service) OwnedBy(providerID string) bool {
	return s.ProviderID == providerID
}

// ServiceUpdate is a partial update of a listing. Nil means unchanged.
type ServiceUpdate struct {
	CategoryID  *string
	Title       *string
	Description *string
	Price       *float64
	PriceType   *PriceType
	Location    *string
}

// Apply copies the non-nil fields onto s.
func (u ServiceUpdate) Apply(s *Service) {
	if u.CategoryID != nil {
		s.CategoryID = *u.CategoryID
	}
	if u.Title != nil {
		s.Title = *u.Title
	}
	if u.Description != nil {
		s.Description = *u.Description
	}
	if u.Price != nil {
		s.Price = *u.Price
	}
	if u.PriceType != nil {
		s.PriceType = *u.PriceType
	}
	if u.Location != nil {
		s.Location = *u.Location
	}
}
