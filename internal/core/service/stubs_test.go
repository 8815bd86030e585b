package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/localpro/marketplace-api/internal/core/domain"
	"github.com/localpro/marketplace-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// paginate mirrors the skip/limit the Mongo repositories apply.
func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		limit = len(items)
	}
	skip := (page - 1) * limit
	if skip < 0 {
		skip = 0
	}
	if skip > len(items) {
		return []T{}
	}
	end := skip + limit
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID   map[string]*domain.User
	seq    int
	getErr error // if set, FindByID returns this error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.seq++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("u-%d", r.seq)
	r.byID[created.ID] = cloneUser(created)
	return created, nil
}

// add stores u directly, bypassing Create.
func (r *stubUserRepo) add(u *domain.User) *domain.User {
	r.byID[u.ID] = cloneUser(u)
	return u
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id string, p domain.ProfileUpdate) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Location != nil {
		u.Location = *p.Location
	}
	if p.AvatarURL != nil {
		u.AvatarURL = *p.AvatarURL
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdateRating(_ context.Context, id string, rating float64) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Rating = rating
	return nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id string, active bool) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsActive = active
	return nil
}

// ---------------------------------------------------------------------------
// Services and categories
// ---------------------------------------------------------------------------

type stubServiceRepo struct {
	byID  map[string]*domain.Service
	order []string
	seq   int
}

func newStubServiceRepo() *stubServiceRepo {
	return &stubServiceRepo{byID: make(map[string]*domain.Service)}
}

func (r *stubServiceRepo) Create(_ context.Context, s *domain.Service) error {
	r.seq++
	s.ID = fmt.Sprintf("s-%d", r.seq)
	clone := *s
	r.byID[s.ID] = &clone
	r.order = append(r.order, s.ID)
	return nil
}

func (r *stubServiceRepo) FindByID(_ context.Context, id string) (*domain.Service, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrServiceNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubServiceRepo) Update(_ context.Context, s *domain.Service) error {
	if _, ok := r.byID[s.ID]; !ok {
		return domain.ErrServiceNotFound
	}
	clone := *s
	r.byID[s.ID] = &clone
	return nil
}

func (r *stubServiceRepo) List(_ context.Context, f ports.ServiceFilter) ([]*domain.Service, int64, error) {
	var matched []*domain.Service
	for _, id := range r.order {
		s := r.byID[id]
		if !f.IncludeInactive && !s.IsActive {
			continue
		}
		if f.CategoryID != "" && s.CategoryID != f.CategoryID {
			continue
		}
		if f.ProviderID != "" && s.ProviderID != f.ProviderID {
			continue
		}
		if f.PriceType != "" && s.PriceType != f.PriceType {
			continue
		}
		if f.MinPrice != nil && s.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && s.Price > *f.MaxPrice {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(s.Title), strings.ToLower(f.Search)) {
			continue
		}
		clone := *s
		matched = append(matched, &clone)
	}
	return paginate(matched, f.Page, f.Limit), int64(len(matched)), nil
}

// addService stores an active listing owned by providerID.
func (r *stubServiceRepo) addService(providerID string, active bool) *domain.Service {
	s := &domain.Service{
		ProviderID:  providerID,
		CategoryID:  "cat-1",
		Title:       "Plumbing repair",
		Description: "Leaks and pipes",
		Price:       40,
		PriceType:   domain.PriceHourly,
		IsActive:    active,
	}
	_ = r.Create(context.Background(), s)
	return s
}

type stubCategoryRepo struct {
	byID      map[string]*domain.ServiceCategory
	listCalls int
}

func newStubCategoryRepo(categories ...*domain.ServiceCategory) *stubCategoryRepo {
	r := &stubCategoryRepo{byID: make(map[string]*domain.ServiceCategory)}
	for _, c := range categories {
		r.byID[c.ID] = c
	}
	return r
}

func (r *stubCategoryRepo) ListActive(_ context.Context) ([]*domain.ServiceCategory, error) {
	r.listCalls++
	var out []*domain.ServiceCategory
	for _, c := range r.byID {
		if c.IsActive {
			clone := *c
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id string) (*domain.ServiceCategory, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCategoryRepo) Upsert(_ context.Context, c *domain.ServiceCategory) error {
	r.byID[c.ID] = c
	return nil
}

type stubCategoryCache struct {
	items  []*domain.ServiceCategory
	hit    bool
	getErr error
	setTTL time.Duration
	sets   int
}

func (c *stubCategoryCache) Get(_ context.Context) ([]*domain.ServiceCategory, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	return c.items, c.hit, nil
}

func (c *stubCategoryCache) Set(_ context.Context, items []*domain.ServiceCategory, ttl time.Duration) error {
	c.items, c.hit, c.setTTL = items, true, ttl
	c.sets++
	return nil
}

// ---------------------------------------------------------------------------
// Requests
// ---------------------------------------------------------------------------

type stubRequestRepo struct {
	byID  map[string]*domain.ServiceRequest
	order []string
	seq   int

	hideOpen    bool // if set, ExistsOpen always reports false (simulates a race)
	staleUpdate bool // if set, UpdateStatus behaves as if another writer won
}

func newStubRequestRepo() *stubRequestRepo {
	return &stubRequestRepo{byID: make(map[string]*domain.ServiceRequest)}
}

func (r *stubRequestRepo) hasOpen(serviceID, customerID string) bool {
	for _, req := range r.byID {
		if req.ServiceID == serviceID && req.CustomerID == customerID && req.Status.IsOpen() {
			return true
		}
	}
	return false
}

// Create enforces the same uniqueness as the partial index on open requests.
func (r *stubRequestRepo) Create(_ context.Context, req *domain.ServiceRequest) error {
	if r.hasOpen(req.ServiceID, req.CustomerID) {
		return domain.ErrOpenRequestExists
	}
	r.seq++
	req.ID = fmt.Sprintf("r-%d", r.seq)
	clone := *req
	r.byID[req.ID] = &clone
	r.order = append(r.order, req.ID)
	return nil
}

func (r *stubRequestRepo) FindByID(_ context.Context, id string) (*domain.ServiceRequest, error) {
	req, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	clone := *req
	return &clone, nil
}

func (r *stubRequestRepo) ExistsOpen(_ context.Context, serviceID, customerID string) (bool, error) {
	if r.hideOpen {
		return false, nil
	}
	return r.hasOpen(serviceID, customerID), nil
}

func (r *stubRequestRepo) UpdateStatus(_ context.Context, id string, from, to domain.RequestStatus, at time.Time) error {
	req, ok := r.byID[id]
	if !ok || r.staleUpdate || req.Status != from {
		return domain.ErrStatusChanged
	}
	req.Status = to
	req.UpdatedAt = at
	return nil
}

func (r *stubRequestRepo) List(_ context.Context, f ports.RequestFilter) ([]*domain.ServiceRequest, int64, error) {
	var matched []*domain.ServiceRequest
	for _, id := range r.order {
		req := r.byID[id]
		if f.CustomerID != "" && req.CustomerID != f.CustomerID {
			continue
		}
		if f.ProviderID != "" && req.ProviderID != f.ProviderID {
			continue
		}
		if f.Status != "" && req.Status != f.Status {
			continue
		}
		clone := *req
		matched = append(matched, &clone)
	}
	return paginate(matched, f.Page, f.Limit), int64(len(matched)), nil
}

// setStatus forces a stored request into status.
func (r *stubRequestRepo) setStatus(id string, status domain.RequestStatus) {
	r.byID[id].Status = status
}

// ---------------------------------------------------------------------------
// Feedback and transactions
// ---------------------------------------------------------------------------

type stubFeedbackRepo struct {
	items []*domain.Feedback
	seq   int
}

func newStubFeedbackRepo() *stubFeedbackRepo {
	return &stubFeedbackRepo{}
}

// Create enforces the unique index on service_request_id.
func (r *stubFeedbackRepo) Create(_ context.Context, f *domain.Feedback) error {
	for _, existing := range r.items {
		if existing.ServiceRequestID == f.ServiceRequestID {
			return domain.ErrFeedbackExists
		}
	}
	r.seq++
	f.ID = fmt.Sprintf("f-%d", r.seq)
	clone := *f
	r.items = append(r.items, &clone)
	return nil
}

func (r *stubFeedbackRepo) ExistsForRequest(_ context.Context, requestID string) (bool, error) {
	for _, f := range r.items {
		if f.ServiceRequestID == requestID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubFeedbackRepo) RatingsForProvider(_ context.Context, providerID string) (int64, int64, error) {
	var sum, count int64
	for _, f := range r.items {
		if f.ProviderID == providerID {
			sum += int64(f.Rating)
			count++
		}
	}
	return sum, count, nil
}

func (r *stubFeedbackRepo) ListVisibleForProvider(_ context.Context, providerID string) ([]*domain.Feedback, error) {
	var out []*domain.Feedback
	for i := len(r.items) - 1; i >= 0; i-- {
		f := r.items[i]
		if f.ProviderID == providerID && f.IsVisible {
			clone := *f
			out = append(out, &clone)
		}
	}
	return out, nil
}

// hide marks stored feedback as not publicly visible.
func (r *stubFeedbackRepo) hide(id string) {
	for _, f := range r.items {
		if f.ID == id {
			f.IsVisible = false
		}
	}
}

type stubTransactor struct {
	calls int
}

func (t *stubTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type recordingObserver struct {
	observed int
}

func (o *recordingObserver) ObserveRatingRecompute(time.Duration) {
	o.observed++
}
