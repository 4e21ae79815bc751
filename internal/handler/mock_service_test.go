package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/nossamoto/backend/internal/model"
	"github.com/nossamoto/backend/internal/pricing"
	"github.com/nossamoto/backend/internal/service"
	"github.com/nossamoto/backend/pkg/auth"
	"github.com/nossamoto/backend/pkg/extractor"
)

// ---- Mock MotorcycleService ----

type mockMotorcycleService struct {
	listFunc   func(ctx context.Context) ([]*model.Motorcycle, error)
	createFunc func(ctx context.Context, name string, price int64) (*model.Motorcycle, error)
	updateFunc func(ctx context.Context, id string, patch model.MotorcyclePatch) (*model.Motorcycle, error)
	deleteFunc func(ctx context.Context, id string) error
}

func (m *mockMotorcycleService) List(ctx context.Context) ([]*model.Motorcycle, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}
func (m *mockMotorcycleService) Create(ctx context.Context, name string, price int64) (*model.Motorcycle, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, name, price)
	}
	return &model.Motorcycle{ID: "m1", Name: name, Price: price}, nil
}
func (m *mockMotorcycleService) Update(ctx context.Context, id string, patch model.MotorcyclePatch) (*model.Motorcycle, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, patch)
	}
	return &model.Motorcycle{ID: id}, nil
}
func (m *mockMotorcycleService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// ---- Mock CoefficientService ----

type mockCoefficientService struct {
	listFunc   func(ctx context.Context) ([]*model.CoefficientRule, error)
	createFunc func(ctx context.Context, rule model.CoefficientRule) (*model.CoefficientRule, error)
	updateFunc func(ctx context.Context, id string, patch model.CoefficientRulePatch) (*model.CoefficientRule, error)
	deleteFunc func(ctx context.Context, id string) error
}

func (m *mockCoefficientService) List(ctx context.Context) ([]*model.CoefficientRule, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}
func (m *mockCoefficientService) Create(ctx context.Context, rule model.CoefficientRule) (*model.CoefficientRule, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, rule)
	}
	rule.ID = "c1"
	return &rule, nil
}
func (m *mockCoefficientService) Update(ctx context.Context, id string, patch model.CoefficientRulePatch) (*model.CoefficientRule, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, patch)
	}
	return &model.CoefficientRule{ID: id}, nil
}
func (m *mockCoefficientService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// ---- Mock SimulationService ----

type mockSimulationService struct {
	quoteFunc  func(ctx context.Context, app model.Application) (pricing.Quote, error)
	submitFunc func(ctx context.Context, app model.Application) (*model.Submission, error)
	listFunc   func(ctx context.Context) ([]*model.Submission, error)
	exportFunc func(ctx context.Context, w io.Writer) error
}

func (m *mockSimulationService) Quote(ctx context.Context, app model.Application) (pricing.Quote, error) {
	if m.quoteFunc != nil {
		return m.quoteFunc(ctx, app)
	}
	return pricing.NoEstimate, nil
}
func (m *mockSimulationService) Submit(ctx context.Context, app model.Application) (*model.Submission, error) {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, app)
	}
	return &model.Submission{ID: "s1", Application: app}, nil
}
func (m *mockSimulationService) List(ctx context.Context) ([]*model.Submission, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}
func (m *mockSimulationService) Export(ctx context.Context, w io.Writer) error {
	if m.exportFunc != nil {
		return m.exportFunc(ctx, w)
	}
	return service.ErrNoSubmissions
}

// ---- Mock AddressService ----

type mockAddressService struct {
	lookupFunc func(ctx context.Context, postalCode string) (*model.Address, error)
}

func (m *mockAddressService) Lookup(ctx context.Context, postalCode string) (*model.Address, error) {
	if m.lookupFunc != nil {
		return m.lookupFunc(ctx, postalCode)
	}
	return &model.Address{}, nil
}

// ---- Mock ImportService ----

type mockImportService struct {
	extractFunc func(ctx context.Context, owner string, doc extractor.Document) (*model.ImportBatch, error)
	confirmFunc func(ctx context.Context, owner, batchID string) (*service.ImportResult, error)
}

func (m *mockImportService) Extract(ctx context.Context, owner string, doc extractor.Document) (*model.ImportBatch, error) {
	if m.extractFunc != nil {
		return m.extractFunc(ctx, owner, doc)
	}
	return &model.ImportBatch{ID: "b1"}, nil
}
func (m *mockImportService) Confirm(ctx context.Context, owner, batchID string) (*service.ImportResult, error) {
	if m.confirmFunc != nil {
		return m.confirmFunc(ctx, owner, batchID)
	}
	return &service.ImportResult{}, nil
}

// ---- Mock AdminAuthService ----

type mockAdminAuthService struct {
	authenticateFunc func(email, password string) error
}

func (m *mockAdminAuthService) Authenticate(email, password string) error {
	if m.authenticateFunc != nil {
		return m.authenticateFunc(email, password)
	}
	return nil
}

// ---- Mock AdminSessions ----

type mockAdminSessions struct {
	loginFunc   func(w http.ResponseWriter, r *http.Request) (string, error)
	logoutFunc  func(w http.ResponseWriter, r *http.Request) error
	sessionFunc func(r *http.Request) (string, error)
}

func (m *mockAdminSessions) Login(w http.ResponseWriter, r *http.Request) (string, error) {
	if m.loginFunc != nil {
		return m.loginFunc(w, r)
	}
	return "sid-1", nil
}
func (m *mockAdminSessions) Logout(w http.ResponseWriter, r *http.Request) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(w, r)
	}
	return nil
}
func (m *mockAdminSessions) AdminSession(r *http.Request) (string, error) {
	if m.sessionFunc != nil {
		return m.sessionFunc(r)
	}
	return "", auth.ErrNoSession
}

// adminRequest builds a request carrying an admin session in its context.
func adminRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(auth.WithAdminSession(req.Context(), "sid-1"))
}

func errorCode(body []byte) string {
	var resp errorResponse
	_ = json.Unmarshal(body, &resp)
	return resp.Error
}
