package model

// Draft is the edit state of one admin-managed record: either no edit is in
// progress, or record R is being edited.
type Draft[T any] struct {
	record *T
}

// NoDraft returns the "no active edit" state.
func NoDraft[T any]() Draft[T] {
	return Draft[T]{}
}

// Editing starts an edit on a copy of r, leaving the stored record untouched
// until the draft is committed.
func Editing[T any](r T) Draft[T] {
	return Draft[T]{record: &r}
}

// Active returns the record under edit.
func (d Draft[T]) Active() (*T, bool) {
	return d.record, d.record != nil
}

// Commit returns the edited record and resets the draft.
func (d *Draft[T]) Commit() (T, bool) {
	var zero T
	if d.record == nil {
		return zero, false
	}
	r := *d.record
	d.record = nil
	return r, true
}
