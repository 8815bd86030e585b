package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/localpro/marketplace-api/internal/api/middleware"
	"github.com/localpro/marketplace-api/internal/core/domain"
	"github.com/localpro/marketplace-api/internal/core/ports"
)

var (
	customer = domain.Identity{UserID: "cust-1", Email: "c@example.com", Role: domain.RoleCustomer}
	provider = domain.Identity{UserID: "prov-1", Email: "p@example.com", Role: domain.RoleProvider}
)

// newContext builds an echo context with the validator installed, a JSON
// body when body is non-empty, and the given identity when non-nil.
func newContext(method, target, body string, identity *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		middleware.SetIdentity(c, *identity)
	}
	return c, rec
}

type stubAuthService struct {
	registerFn     func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn        func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	refreshFn      func(ctx context.Context, token string) (*domain.TokenPair, error)
	authenticateFn func(ctx context.Context, token string) (*domain.Identity, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, token string) (*domain.TokenPair, error) {
	return s.refreshFn(ctx, token)
}

func (s *stubAuthService) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	return s.authenticateFn(ctx, token)
}

type stubProfileService struct {
	getFn         func(ctx context.Context, userID string) (*domain.User, error)
	updateFn      func(ctx context.Context, userID string, u domain.ProfileUpdate) (*domain.User, error)
	deactivateFn  func(ctx context.Context, userID string) error
	getProviderFn func(ctx context.Context, id string) (*domain.ProviderProfile, error)
}

func (s *stubProfileService) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.getFn(ctx, userID)
}

func (s *stubProfileService) Update(ctx context.Context, userID string, u domain.ProfileUpdate) (*domain.User, error) {
	return s.updateFn(ctx, userID, u)
}

func (s *stubProfileService) Deactivate(ctx context.Context, userID string) error {
	return s.deactivateFn(ctx, userID)
}

func (s *stubProfileService) GetProvider(ctx context.Context, id string) (*domain.ProviderProfile, error) {
	return s.getProviderFn(ctx, id)
}

type stubRequestService struct {
	createFn     func(ctx context.Context, actor domain.Identity, in ports.CreateRequestInput) (*domain.ServiceRequest, error)
	getFn        func(ctx context.Context, actor domain.Identity, id string) (*domain.ServiceRequest, error)
	transitionFn func(ctx context.Context, actor domain.Identity, id string, to domain.RequestStatus) (*domain.ServiceRequest, error)
	listFn       func(ctx context.Context, actor domain.Identity, in ports.ListRequestsInput) (*domain.Page[*domain.ServiceRequest], error)
}

func (s *stubRequestService) Create(ctx context.Context, actor domain.Identity, in ports.CreateRequestInput) (*domain.ServiceRequest, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubRequestService) Get(ctx context.Context, actor domain.Identity, id string) (*domain.ServiceRequest, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubRequestService) Transition(ctx context.Context, actor domain.Identity, id string, to domain.RequestStatus) (*domain.ServiceRequest, error) {
	return s.transitionFn(ctx, actor, id, to)
}

func (s *stubRequestService) List(ctx context.Context, actor domain.Identity, in ports.ListRequestsInput) (*domain.Page[*domain.ServiceRequest], error) {
	return s.listFn(ctx, actor, in)
}

type stubFeedbackService struct {
	submitFn func(ctx context.Context, actor domain.Identity, in ports.SubmitFeedbackInput) (*domain.Feedback, error)
	listFn   func(ctx context.Context, providerID string) (*domain.FeedbackSummary, error)
}

func (s *stubFeedbackService) Submit(ctx context.Context, actor domain.Identity, in ports.SubmitFeedbackInput) (*domain.Feedback, error) {
	return s.submitFn(ctx, actor, in)
}

func (s *stubFeedbackService) ListForProvider(ctx context.Context, providerID string) (*domain.FeedbackSummary, error) {
	return s.listFn(ctx, providerID)
}

type stubCatalogService struct {
	listCategoriesFn func(ctx context.Context) ([]*domain.ServiceCategory, error)
	createFn         func(ctx context.Context, actor domain.Identity, in ports.CreateServiceInput) (*domain.Service, error)
	getFn            func(ctx context.Context, id string) (*domain.Service, error)
	updateFn         func(ctx context.Context, actor domain.Identity, id string, u domain.ServiceUpdate) (*domain.Service, error)
	deleteFn         func(ctx context.Context, actor domain.Identity, id string) error
	searchFn         func(ctx context.Context, f ports.ServiceFilter) (*domain.Page[*domain.Service], error)
	listOwnFn        func(ctx context.Context, actor domain.Identity, page, limit int) (*domain.Page[*domain.Service], error)
}

func (s *stubCatalogService) ListCategories(ctx context.Context) ([]*domain.ServiceCategory, error) {
	return s.listCategoriesFn(ctx)
}

func (s *stubCatalogService) CreateService(ctx context.Context, actor domain.Identity, in ports.CreateServiceInput) (*domain.Service, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubCatalogService) GetService(ctx context.Context, id string) (*domain.Service, error) {
	return s.getFn(ctx, id)
}

func (s *stubCatalogService) UpdateService(ctx context.Context, actor domain.Identity, id string, u domain.ServiceUpdate) (*domain.Service, error) {
	return s.updateFn(ctx, actor, id, u)
}

func (s *stubCatalogService) DeleteService(ctx context.Context, actor domain.Identity, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubCatalogService) SearchServices(ctx context.Context, f ports.ServiceFilter) (*domain.Page[*domain.Service], error) {
	return s.searchFn(ctx, f)
}

func (s *stubCatalogService) ListOwnServices(ctx context.Context, actor domain.Identity, page, limit int) (*domain.Page[*domain.Service], error) {
	return s.listOwnFn(ctx, actor, page, limit)
}
