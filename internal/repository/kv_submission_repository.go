package repository

import (
	"context"

	"github.com/nossamoto/backend/internal/model"
)

type kvSubmissionRepository struct {
	store *KVStore
}

// NewKVSubmissionRepository returns a SubmissionRepository kept under the
// formSubmissions key, oldest first.
func NewKVSubmissionRepository(store *KVStore) SubmissionRepository {
	return &kvSubmissionRepository{store: store}
}

func (r *kvSubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	list, err := loadArray[storedSubmission](ctx, r.store, KeySubmissions)
	if err != nil {
		return err
	}
	for _, existing := range list {
		if string(existing.ID) == s.ID {
			return ErrConflict
		}
	}
	list = append(list, fromSubmission(s))
	return storeArray(ctx, r.store, KeySubmissions, list)
}

func (r *kvSubmissionRepository) List(ctx context.Context) ([]*model.Submission, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	list, err := loadArray[storedSubmission](ctx, r.store, KeySubmissions)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Submission, len(list))
	for i, s := range list {
		out[len(list)-1-i] = s.toModel()
	}
	return out, nil
}
