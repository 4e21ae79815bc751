package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nossamoto/backend/internal/model"
	"github.com/nossamoto/backend/internal/repository"
)

// CoefficientService manages the coefficient table.
type CoefficientService interface {
	// List returns the table ordered by term, then by lower bound.
	List(ctx context.Context) ([]*model.CoefficientRule, error)
	Create(ctx context.Context, rule model.CoefficientRule) (*model.CoefficientRule, error)
	Update(ctx context.Context, id string, patch model.CoefficientRulePatch) (*model.CoefficientRule, error)
	Delete(ctx context.Context, id string) error
}

type coefficientService struct {
	repo repository.CoefficientRepository
}

// NewCoefficientService returns a CoefficientService backed by repo.
func NewCoefficientService(repo repository.CoefficientRepository) CoefficientService {
	return &coefficientService{repo: repo}
}

func (s *coefficientService) List(ctx context.Context) ([]*model.CoefficientRule, error) {
	rules, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	model.SortCoefficientRules(rules)
	return rules, nil
}

func (s *coefficientService) Create(ctx context.Context, rule model.CoefficientRule) (*model.CoefficientRule, error) {
	r := &rule
	r.ID = uuid.NewString()
	normalizeRule(r)
	if err := validateRule(r); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *coefficientService) Update(ctx context.Context, id string, patch model.CoefficientRulePatch) (*model.CoefficientRule, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	draft := model.Editing(*current)
	edit, _ := draft.Active()
	if patch.Term != nil {
		edit.Term = *patch.Term
	}
	if patch.DownPaymentMin != nil {
		edit.DownPaymentMin = *patch.DownPaymentMin
	}
	if patch.DownPaymentMax != nil {
		edit.DownPaymentMax = *patch.DownPaymentMax
	}
	if patch.Value != nil {
		edit.Value = *patch.Value
	}
	if patch.Motorcycle != nil {
		edit.Motorcycle = *patch.Motorcycle
	}
	if patch.Bank != nil {
		edit.Bank = *patch.Bank
	}
	normalizeRule(edit)
	if err := validateRule(edit); err != nil {
		return nil, err
	}

	updated, _ := draft.Commit()
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *coefficientService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func normalizeRule(r *model.CoefficientRule) {
	r.Motorcycle = strings.TrimSpace(r.Motorcycle)
	r.Bank = strings.TrimSpace(r.Bank)
}

func validateRule(r *model.CoefficientRule) error {
	switch {
	case r.Term <= 0:
		return fmt.Errorf("%w: term must be positive", ErrInvalidRecord)
	case r.DownPaymentMin < 0 || r.DownPaymentMax > 100:
		return fmt.Errorf("%w: down payment range must lie within 0-100", ErrInvalidRecord)
	case r.DownPaymentMin > r.DownPaymentMax:
		return fmt.Errorf("%w: down payment minimum exceeds maximum", ErrInvalidRecord)
	case r.Value <= 0:
		return fmt.Errorf("%w: value must be positive", ErrInvalidRecord)
	case r.Motorcycle == "":
		return fmt.Errorf("%w: motorcycle is required", ErrInvalidRecord)
	case r.Bank == "":
		return fmt.Errorf("%w: bank is required", ErrInvalidRecord)
	}
	return nil
}
