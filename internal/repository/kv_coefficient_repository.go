package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nossamoto/backend/internal/model"
)

type kvCoefficientRepository struct {
	store *KVStore
}

// NewKVCoefficientRepository returns a CoefficientRepository kept under the
// kb_coefficients key. Rules stored before scope and lender existed are
// backfilled and written back on the first read.
func NewKVCoefficientRepository(store *KVStore) CoefficientRepository {
	return &kvCoefficientRepository{store: store}
}

func (r *kvCoefficientRepository) load(ctx context.Context) ([]*model.CoefficientRule, error) {
	stored, err := loadArray[storedCoefficient](ctx, r.store, KeyCoefficients)
	if err != nil {
		return nil, err
	}
	rules := make([]*model.CoefficientRule, 0, len(stored))
	changed := false
	for _, s := range stored {
		c := s.toModel()
		if c.ID == "" {
			c.ID = uuid.NewString()
			changed = true
		}
		rules = append(rules, c)
	}
	if model.BackfillCoefficientDefaults(rules) {
		changed = true
	}
	if changed {
		if err := r.save(ctx, rules); err != nil {
			return nil, err
		}
	}
	return rules, nil
}

// save sorts rules and replaces the stored table.
func (r *kvCoefficientRepository) save(ctx context.Context, rules []*model.CoefficientRule) error {
	model.SortCoefficientRules(rules)
	stored := make([]storedCoefficient, 0, len(rules))
	for _, c := range rules {
		stored = append(stored, fromCoefficient(c))
	}
	return storeArray(ctx, r.store, KeyCoefficients, stored)
}

func (r *kvCoefficientRepository) List(ctx context.Context) ([]*model.CoefficientRule, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rules, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	model.SortCoefficientRules(rules)
	return rules, nil
}

func (r *kvCoefficientRepository) GetByID(ctx context.Context, id string) (*model.CoefficientRule, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rules, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range rules {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

func (r *kvCoefficientRepository) Create(ctx context.Context, c *model.CoefficientRule) error {
	return r.CreateMany(ctx, []*model.CoefficientRule{c})
}

func (r *kvCoefficientRepository) CreateMany(ctx context.Context, cs []*model.CoefficientRule) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rules, err := r.load(ctx)
	if err != nil {
		return err
	}
	for _, c := range cs {
		for _, existing := range rules {
			if existing.ID == c.ID {
				return ErrConflict
			}
		}
		rules = append(rules, c)
	}
	return r.save(ctx, rules)
}

func (r *kvCoefficientRepository) Update(ctx context.Context, c *model.CoefficientRule) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rules, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range rules {
		if rules[i].ID == c.ID {
			rules[i] = c
			return r.save(ctx, rules)
		}
	}
	return ErrNotFound
}

func (r *kvCoefficientRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rules, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range rules {
		if rules[i].ID == id {
			rules = append(rules[:i], rules[i+1:]...)
			return r.save(ctx, rules)
		}
	}
	return ErrNotFound
}
