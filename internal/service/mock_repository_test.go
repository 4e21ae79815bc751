package service

import (
	"context"

	"github.com/nossamoto/backend/internal/model"
	"github.com/nossamoto/backend/internal/repository"
	"github.com/nossamoto/backend/pkg/extractor"
	"github.com/nossamoto/backend/pkg/postal"
)

func int64p(v int64) *int64 { return &v }

// ---------------------------------------------------------------------------
// Mock MotorcycleRepository
// ---------------------------------------------------------------------------

type mockMotorcycleRepository struct {
	listFunc       func(ctx context.Context) ([]*model.Motorcycle, error)
	getByIDFunc    func(ctx context.Context, id string) (*model.Motorcycle, error)
	createFunc     func(ctx context.Context, m *model.Motorcycle) error
	createManyFunc func(ctx context.Context, ms []*model.Motorcycle) error
	updateFunc     func(ctx context.Context, m *model.Motorcycle) error
	deleteFunc     func(ctx context.Context, id string) error
}

func (m *mockMotorcycleRepository) List(ctx context.Context) ([]*model.Motorcycle, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}
func (m *mockMotorcycleRepository) GetByID(ctx context.Context, id string) (*model.Motorcycle, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (m *mockMotorcycleRepository) Create(ctx context.Context, moto *model.Motorcycle) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, moto)
	}
	return nil
}
func (m *mockMotorcycleRepository) CreateMany(ctx context.Context, ms []*model.Motorcycle) error {
	if m.createManyFunc != nil {
		return m.createManyFunc(ctx, ms)
	}
	return nil
}
func (m *mockMotorcycleRepository) Update(ctx context.Context, moto *model.Motorcycle) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, moto)
	}
	return nil
}
func (m *mockMotorcycleRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mock CoefficientRepository
// ---------------------------------------------------------------------------

type mockCoefficientRepository struct {
	listFunc       func(ctx context.Context) ([]*model.CoefficientRule, error)
	getByIDFunc    func(ctx context.Context, id string) (*model.CoefficientRule, error)
	createFunc     func(ctx context.Context, r *model.CoefficientRule) error
	createManyFunc func(ctx context.Context, rs []*model.CoefficientRule) error
	updateFunc     func(ctx context.Context, r *model.CoefficientRule) error
	deleteFunc     func(ctx context.Context, id string) error
}

func (m *mockCoefficientRepository) List(ctx context.Context) ([]*model.CoefficientRule, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}
func (m *mockCoefficientRepository) GetByID(ctx context.Context, id string) (*model.CoefficientRule, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (m *mockCoefficientRepository) Create(ctx context.Context, r *model.CoefficientRule) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, r)
	}
	return nil
}
func (m *mockCoefficientRepository) CreateMany(ctx context.Context, rs []*model.CoefficientRule) error {
	if m.createManyFunc != nil {
		return m.createManyFunc(ctx, rs)
	}
	return nil
}
func (m *mockCoefficientRepository) Update(ctx context.Context, r *model.CoefficientRule) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, r)
	}
	return nil
}
func (m *mockCoefficientRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mock SubmissionRepository
// ---------------------------------------------------------------------------

type mockSubmissionRepository struct {
	createFunc func(ctx context.Context, s *model.Submission) error
	listFunc   func(ctx context.Context) ([]*model.Submission, error)
}

func (m *mockSubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, s)
	}
	return nil
}
func (m *mockSubmissionRepository) List(ctx context.Context) ([]*model.Submission, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

// ---------------------------------------------------------------------------
// Mock Extractor / postal.Client
// ---------------------------------------------------------------------------

type mockExtractor struct {
	extractFunc func(ctx context.Context, doc extractor.Document) (*extractor.Batch, error)
}

func (m *mockExtractor) Extract(ctx context.Context, doc extractor.Document) (*extractor.Batch, error) {
	if m.extractFunc != nil {
		return m.extractFunc(ctx, doc)
	}
	return nil, extractor.ErrEmptyExtraction
}

type mockPostalClient struct {
	calls      int
	lookupFunc func(ctx context.Context, code string) (*postal.Address, error)
}

func (m *mockPostalClient) Lookup(ctx context.Context, code string) (*postal.Address, error) {
	m.calls++
	if m.lookupFunc != nil {
		return m.lookupFunc(ctx, code)
	}
	return nil, postal.ErrNotFound
}
