package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nossamoto/backend/internal/model"
)

type kvMotorcycleRepository struct {
	store *KVStore
}

// NewKVMotorcycleRepository returns a MotorcycleRepository kept under the
// kb_motorcycles key.
func NewKVMotorcycleRepository(store *KVStore) MotorcycleRepository {
	return &kvMotorcycleRepository{store: store}
}

// load reads the catalog, assigning identifiers to records stored without one.
func (r *kvMotorcycleRepository) load(ctx context.Context) ([]storedMotorcycle, error) {
	list, err := loadArray[storedMotorcycle](ctx, r.store, KeyMotorcycles)
	if err != nil {
		return nil, err
	}
	changed := false
	for i := range list {
		if list[i].ID == "" {
			list[i].ID = flexID(uuid.NewString())
			changed = true
		}
	}
	if changed {
		if err := storeArray(ctx, r.store, KeyMotorcycles, list); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *kvMotorcycleRepository) List(ctx context.Context) ([]*model.Motorcycle, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Motorcycle, 0, len(list))
	for _, m := range list {
		out = append(out, m.toModel())
	}
	return out, nil
}

func (r *kvMotorcycleRepository) GetByID(ctx context.Context, id string) (*model.Motorcycle, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range list {
		if string(m.ID) == id {
			return m.toModel(), nil
		}
	}
	return nil, ErrNotFound
}

func (r *kvMotorcycleRepository) Create(ctx context.Context, m *model.Motorcycle) error {
	return r.CreateMany(ctx, []*model.Motorcycle{m})
}

func (r *kvMotorcycleRepository) CreateMany(ctx context.Context, ms []*model.Motorcycle) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return err
	}
	for _, m := range ms {
		for _, existing := range list {
			if string(existing.ID) == m.ID {
				return ErrConflict
			}
		}
		list = append(list, fromMotorcycle(m))
	}
	return storeArray(ctx, r.store, KeyMotorcycles, list)
}

func (r *kvMotorcycleRepository) Update(ctx context.Context, m *model.Motorcycle) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		if string(list[i].ID) == m.ID {
			list[i] = fromMotorcycle(m)
			return storeArray(ctx, r.store, KeyMotorcycles, list)
		}
	}
	return ErrNotFound
}

func (r *kvMotorcycleRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		if string(list[i].ID) == id {
			list = append(list[:i], list[i+1:]...)
			return storeArray(ctx, r.store, KeyMotorcycles, list)
		}
	}
	return ErrNotFound
}
