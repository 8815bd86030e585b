package domain

import "slices"

// Operation names an action on a service request that the policy gates.
type Operation string

const (
	OpRequestCreate     Operation = "request.create"
	OpRequestView       Operation = "request.view"
	OpRequestTransition Operation = "request.transition"
	OpFeedbackSubmit    Operation = "feedback.submit"
)

// Relation is how a caller is party to a request.
type Relation int

const (
	RelationNone Relation = iota
	RelationCustomer
	RelationProvider
)

// Rule grants one role an operation. Relation, Targets and From narrow the
// grant; a zero value for any of them means no restriction.
type Rule struct {
	Relation Relation
	Targets  []RequestStatus
	From     []RequestStatus
}

type ruleKey struct {
	op   Operation
	role Role
}

// denials is the error each operation reports when no rule matches.
// Reads and feedback collapse to not-found so other parties' requests do
// not leak.
var denials = map[Operation]error{
	OpRequestCreate:     ErrRoleForbidden,
	OpRequestView:       ErrRequestNotFound,
	OpRequestTransition: ErrTransitionForbidden,
	OpFeedbackSubmit:    ErrRequestNotFound,
}

// Policy holds the role and ownership rules for every request operation.
// It is immutable after construction and safe for concurrent use.
type Policy struct {
	rules  map[ruleKey]Rule
	strict bool
}

// NewPolicy returns the marketplace rule set. With strict set, transitions
// must also follow the lifecycle state diagram.
func NewPolicy(strict bool) *Policy {
	return &Policy{
		strict: strict,
		rules: map[ruleKey]Rule{
			{OpRequestCreate, RoleCustomer}: {},
			{OpRequestView, RoleCustomer}:   {Relation: RelationCustomer},
			{OpRequestView, RoleProvider}:   {Relation: RelationProvider},
			{OpRequestTransition, RoleProvider}: {
				Relation: RelationProvider,
				Targets:  []RequestStatus{RequestAccepted, RequestDeclined, RequestCompleted},
			},
			{OpRequestTransition, RoleCustomer}: {
				Relation: RelationCustomer,
				Targets:  []RequestStatus{RequestCancelled},
				From:     []RequestStatus{RequestPending},
			},
			{OpFeedbackSubmit, RoleCustomer}: {
				Relation: RelationCustomer,
				From:     []RequestStatus{RequestCompleted},
			},
		},
	}
}

// Strict reports whether the state diagram is enforced on transitions.
func (p *Policy) Strict() bool { return p.strict }

// Authorize checks whether actor may perform op on req. req may be nil for
// operations that do not target an existing request; target is only
// consulted for transitions.
func (p *Policy) Authorize(op Operation, actor Identity, req *ServiceRequest, target RequestStatus) error {
	deny := denials[op]
	if deny == nil {
		deny = ErrForbidden
	}

	rule, ok := p.rules[ruleKey{op, actor.Role}]
	if !ok {
		return deny
	}
	if rule.Relation != RelationNone {
		if req == nil || req.RelationOf(actor.UserID) != rule.Relation {
			return deny
		}
	}
	if len(rule.Targets) > 0 && !slices.Contains(rule.Targets, target) {
		return deny
	}
	if len(rule.From) > 0 && (req == nil || !slices.Contains(rule.From, req.Status)) {
		return deny
	}
	if op == OpRequestTransition && p.strict && !req.Status.CanTransitionTo(target) {
		return ErrInvalidTransition
	}
	return nil
}
