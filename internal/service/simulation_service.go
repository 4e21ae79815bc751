package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nossamoto/backend/internal/export"
	"github.com/nossamoto/backend/internal/form"
	"github.com/nossamoto/backend/internal/model"
	"github.com/nossamoto/backend/internal/pricing"
	"github.com/nossamoto/backend/internal/repository"
	"github.com/nossamoto/backend/internal/validation"
)

// SimulationService prices, validates and records financing simulations.
type SimulationService interface {
	// Quote returns the installment estimate for a draft application.
	Quote(ctx context.Context, app model.Application) (pricing.Quote, error)
	// Submit validates and stores an application. A rejected application
	// yields a *ValidationError.
	Submit(ctx context.Context, app model.Application) (*model.Submission, error)
	List(ctx context.Context) ([]*model.Submission, error)
	// Export writes every submission, newest first, as CSV.
	Export(ctx context.Context, w io.Writer) error
}

type simulationService struct {
	motorcycles  repository.MotorcycleRepository
	coefficients repository.CoefficientRepository
	submissions  repository.SubmissionRepository
	now          func() time.Time
}

// NewSimulationService returns a SimulationService.
func NewSimulationService(
	motorcycles repository.MotorcycleRepository,
	coefficients repository.CoefficientRepository,
	submissions repository.SubmissionRepository,
) SimulationService {
	return &simulationService{
		motorcycles:  motorcycles,
		coefficients: coefficients,
		submissions:  submissions,
		now:          time.Now,
	}
}

func (s *simulationService) load(ctx context.Context, app model.Application) (*form.State, error) {
	catalog, err := s.motorcycles.List(ctx)
	if err != nil {
		return nil, err
	}
	rules, err := s.coefficients.List(ctx)
	if err != nil {
		return nil, err
	}
	return form.FromApplication(app, catalog, rules), nil
}

func (s *simulationService) Quote(ctx context.Context, app model.Application) (pricing.Quote, error) {
	st, err := s.load(ctx, app)
	if err != nil {
		return pricing.NoEstimate, err
	}
	return st.Quote(), nil
}

func (s *simulationService) Submit(ctx context.Context, app model.Application) (*model.Submission, error) {
	st, err := s.load(ctx, app)
	if err != nil {
		return nil, err
	}
	if !st.Validate() {
		return nil, &ValidationError{
			Fields:         st.Errors(),
			Focus:          st.Focus(),
			ExpandOptional: st.OptionalExpanded(),
		}
	}

	accepted := st.Application()
	accepted.TaxID = validation.Digits(accepted.TaxID)
	accepted.Phone = validation.Digits(accepted.Phone)
	accepted.PostalCode = validation.Digits(accepted.PostalCode)

	sub := &model.Submission{
		ID:          uuid.NewString(),
		Application: accepted,
		SubmittedAt: s.now().UTC(),
	}
	if q := st.Quote(); q.Available {
		sub.Installment = q.Installment
		sub.Lender = q.Lender
	}
	if err := s.submissions.Create(ctx, sub); err != nil {
		return nil, err
	}
	slog.Info("simulation submitted", "submission_id", sub.ID, "motorcycle", sub.Motorcycle, "term", sub.Term, "estimated", sub.Installment > 0)
	return sub, nil
}

func (s *simulationService) List(ctx context.Context) ([]*model.Submission, error) {
	return s.submissions.List(ctx)
}

func (s *simulationService) Export(ctx context.Context, w io.Writer) error {
	subs, err := s.submissions.List(ctx)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		return ErrNoSubmissions
	}
	return export.WriteSubmissions(w, subs)
}
