package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nossamoto/backend/internal/model"
	"github.com/nossamoto/backend/internal/repository"
)

// MotorcycleService manages the motorcycle catalog.
type MotorcycleService interface {
	List(ctx context.Context) ([]*model.Motorcycle, error)
	Create(ctx context.Context, name string, price int64) (*model.Motorcycle, error)
	Update(ctx context.Context, id string, patch model.MotorcyclePatch) (*model.Motorcycle, error)
	Delete(ctx context.Context, id string) error
}

type motorcycleService struct {
	repo repository.MotorcycleRepository
}

// NewMotorcycleService returns a MotorcycleService backed by repo.
func NewMotorcycleService(repo repository.MotorcycleRepository) MotorcycleService {
	return &motorcycleService{repo: repo}
}

func (s *motorcycleService) List(ctx context.Context) ([]*model.Motorcycle, error) {
	return s.repo.List(ctx)
}

func (s *motorcycleService) Create(ctx context.Context, name string, price int64) (*model.Motorcycle, error) {
	m := &model.Motorcycle{ID: uuid.NewString(), Name: strings.TrimSpace(name), Price: price}
	if err := validateMotorcycle(m); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, m); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Update applies patch to a draft copy of the stored record and persists it
// only once the draft is valid.
func (s *motorcycleService) Update(ctx context.Context, id string, patch model.MotorcyclePatch) (*model.Motorcycle, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	draft := model.Editing(*current)
	edit, _ := draft.Active()
	if patch.Name != nil {
		edit.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Price != nil {
		edit.Price = *patch.Price
	}
	if err := validateMotorcycle(edit); err != nil {
		return nil, err
	}
	// Imports may leave duplicate names; only a rename is checked.
	if !strings.EqualFold(edit.Name, current.Name) {
		if err := s.ensureUniqueName(ctx, edit); err != nil {
			return nil, err
		}
	}

	updated, _ := draft.Commit()
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *motorcycleService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *motorcycleService) ensureUniqueName(ctx context.Context, m *model.Motorcycle) error {
	catalog, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	for _, other := range catalog {
		if other.ID != m.ID && strings.EqualFold(other.Name, m.Name) {
			return ErrNameTaken
		}
	}
	return nil
}

func validateMotorcycle(m *model.Motorcycle) error {
	if m.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRecord)
	}
	if m.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrInvalidRecord)
	}
	return nil
}
