package model

import "time"

// Motorcycle is a catalog entry. Name is the unique display key referenced by
// coefficient rules and submissions.
type Motorcycle struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"` // centavos
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MotorcyclePatch holds fields that can be updated on a motorcycle.
type MotorcyclePatch struct {
	Name  *string
	Price *int64
}

// FindMotorcycle returns the catalog entry with the given name.
func FindMotorcycle(catalog []*Motorcycle, name string) (*Motorcycle, bool) {
	for _, m := range catalog {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}
