package form

import (
	"errors"

	"github.com/nossamoto/backend/internal/model"
	"github.com/nossamoto/backend/internal/validation"
	"github.com/nossamoto/backend/pkg/postal"
)

// Postal lookup error codes set on the postal_code field.
const (
	CodePostalNotFound     = "postal_code_not_found"
	CodePostalLookupFailed = "postal_lookup_failed"
)

type lookupState struct {
	generation uint64
	pending    bool
}

// LookupTicket identifies one postal lookup started by the form.
type LookupTicket struct {
	Generation uint64
	PostalCode string
}

// BeginAddressLookup starts a lookup for the current postal code. It returns
// false when the code does not have 8 digits. Any lookup still in flight is
// superseded.
func (s *State) BeginAddressLookup() (LookupTicket, bool) {
	cep := validation.Digits(s.app.PostalCode)
	if len(cep) != 8 {
		return LookupTicket{}, false
	}
	s.lookup.generation++
	s.lookup.pending = true
	return LookupTicket{Generation: s.lookup.generation, PostalCode: cep}, true
}

// LookupPending reports whether the latest lookup has not completed.
func (s *State) LookupPending() bool { return s.lookup.pending }

// ApplyAddress applies a lookup result. Results from superseded lookups, or
// for a postal code the user has since changed, are discarded and false is
// returned.
func (s *State) ApplyAddress(t LookupTicket, addr *model.Address, err error) bool {
	if t.Generation != s.lookup.generation || validation.Digits(s.app.PostalCode) != t.PostalCode {
		return false
	}
	s.lookup.pending = false

	switch {
	case errors.Is(err, postal.ErrNotFound):
		s.errs["postal_code"] = CodePostalNotFound
		return true
	case err != nil || addr == nil:
		s.errs["postal_code"] = CodePostalLookupFailed
		return true
	}

	s.app.Street = addr.Street
	s.app.District = addr.District
	s.app.City = addr.City
	s.app.State = addr.State
	for _, f := range []string{"postal_code", "street", "district", "city", "state"} {
		s.clearError(f)
	}
	s.focus = "number"
	return true
}
