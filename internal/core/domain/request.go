package domain

import "time"

// RequestStatus represents the lifecycle state of a service request.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestAccepted  RequestStatus = "accepted"
	RequestDeclined  RequestStatus = "declined"
	RequestCompleted RequestStatus = "completed"
	RequestCancelled RequestStatus = "cancelled"
)

// validTransitions is the lifecycle state diagram.
var validTransitions = map[RequestStatus][]RequestStatus{
	RequestPending:  {RequestAccepted, RequestDeclined, RequestCancelled},
	RequestAccepted: {RequestCompleted},
}

// Valid reports whether s is a known status.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestAccepted, RequestDeclined, RequestCompleted, RequestCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the state diagram has an edge from s to next.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsOpen reports whether s still blocks a new request for the same
// (service, customer) pair.
func (s RequestStatus) IsOpen() bool {
	return s == RequestPending || s == RequestAccepted
}

// ServiceRequest is a customer's booking of a provider's service.
// ProviderID is copied from the service owner at creation time.
type ServiceRequest struct {
	ID                string        `json:"id"`
	ServiceID         string        `json:"service_id"`
	CustomerID        string        `json:"customer_id"`
	ProviderID        string        `json:"provider_id"`
	Status            RequestStatus `json:"status"`
	Message           string        `json:"message,omitempty"`
	RequestedDate     *time.Time    `json:"requested_date,omitempty"`
	EstimatedDuration *int          `json:"estimated_duration,omitempty"` // minutes
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// RelationOf returns how userID is party to r.
func (r *ServiceRequest) RelationOf(userID string) Relation {
	switch userID {
	case r.CustomerID:
		return RelationCustomer
	case r.ProviderID:
		return RelationProvider
	}
	return RelationNone
}
