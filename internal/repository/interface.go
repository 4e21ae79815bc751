package repository

import (
	"context"

	"github.com/nossamoto/backend/internal/model"
)

// DB reports whether a store connection is alive.
type DB interface {
	Ping(ctx context.Context) error
}

// MotorcycleRepository persists the motorcycle catalog.
type MotorcycleRepository interface {
	// List returns the catalog in insertion order.
	List(ctx context.Context) ([]*model.Motorcycle, error)
	GetByID(ctx context.Context, id string) (*model.Motorcycle, error)
	Create(ctx context.Context, m *model.Motorcycle) error
	// CreateMany appends all records without deduplication.
	CreateMany(ctx context.Context, ms []*model.Motorcycle) error
	Update(ctx context.Context, m *model.Motorcycle) error
	Delete(ctx context.Context, id string) error
}

// CoefficientRepository persists the coefficient table.
type CoefficientRepository interface {
	// List returns every rule ordered by term, then by lower bound.
	List(ctx context.Context) ([]*model.CoefficientRule, error)
	GetByID(ctx context.Context, id string) (*model.CoefficientRule, error)
	Create(ctx context.Context, r *model.CoefficientRule) error
	CreateMany(ctx context.Context, rs []*model.CoefficientRule) error
	Update(ctx context.Context, r *model.CoefficientRule) error
	Delete(ctx context.Context, id string) error
}

// SubmissionRepository persists completed simulations. Submissions are
// append-only.
type SubmissionRepository interface {
	Create(ctx context.Context, s *model.Submission) error
	// List returns submissions newest first.
	List(ctx context.Context) ([]*model.Submission, error)
}
