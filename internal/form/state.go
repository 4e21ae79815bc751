// Package form holds the state of one financing simulation form: the
// applicant draft, field errors, and the installment estimate derived from
// the pricing inputs.
package form

import (
	"errors"
	"fmt"
	"time"

	"github.com/nossamoto/backend/internal/model"
	"github.com/nossamoto/backend/internal/pricing"
	"github.com/nossamoto/backend/internal/validation"
)

// ErrUnknownField is returned by SetText for fields it does not manage.
var ErrUnknownField = errors.New("form: unknown field")

// State is not safe for concurrent use.
type State struct {
	app     model.Application
	catalog []*model.Motorcycle
	rules   []*model.CoefficientRule

	errs         validation.FieldErrors
	focus        string
	showOptional bool

	quote     pricing.Quote
	lastInput pricing.Input
	computed  bool

	lookup lookupState

	now func() time.Time
}

// New returns an empty form over the given catalog and coefficient table.
func New(catalog []*model.Motorcycle, rules []*model.CoefficientRule) *State {
	s := &State{
		catalog: catalog,
		rules:   rules,
		errs:    validation.FieldErrors{},
		now:     time.Now,
	}
	s.refresh()
	return s
}

// FromApplication loads a posted draft. The price always comes from the
// catalog entry of the selected motorcycle, never from the client.
func FromApplication(app model.Application, catalog []*model.Motorcycle, rules []*model.CoefficientRule) *State {
	s := New(catalog, rules)
	s.app = app
	s.SelectMotorcycle(app.Motorcycle)
	return s
}

// Application returns a copy of the current draft.
func (s *State) Application() model.Application { return s.app }

// Quote returns the estimate for the current pricing inputs.
func (s *State) Quote() pricing.Quote { return s.quote }

// Errors returns the field errors from the last validation, minus fields
// edited since.
func (s *State) Errors() validation.FieldErrors { return s.errs }

// Focus returns the field that should receive input focus.
func (s *State) Focus() string { return s.focus }

// OptionalExpanded reports whether the optional section is shown.
func (s *State) OptionalExpanded() bool { return s.showOptional }

// ToggleOptional shows or hides the optional section.
func (s *State) ToggleOptional() { s.showOptional = !s.showOptional }

// SetRules replaces the coefficient table. The table is a pricing input.
func (s *State) SetRules(rules []*model.CoefficientRule) {
	s.rules = rules
	s.computed = false
	s.refresh()
}

// SelectMotorcycle sets the model and its catalog price. An unknown name
// clears the price.
func (s *State) SelectMotorcycle(name string) {
	s.app.Motorcycle = name
	s.app.Price = 0
	if m, ok := model.FindMotorcycle(s.catalog, name); ok {
		s.app.Price = m.Price
	}
	s.clearError("motorcycle")
	s.refresh()
}

// SetDownPayment sets the down payment; nil marks the field blank.
func (s *State) SetDownPayment(v *int64) {
	s.app.DownPayment = v
	s.clearError("down_payment")
	s.refresh()
}

// SetTerm sets the payment term in months.
func (s *State) SetTerm(months int) {
	s.app.Term = months
	s.clearError("term")
	s.refresh()
}

// SetMonthlyIncome sets the optional income; nil marks the field blank.
func (s *State) SetMonthlyIncome(v *int64) {
	s.app.MonthlyIncome = v
	s.clearError("monthly_income")
}

// AcceptTerms sets the terms-acceptance flag.
func (s *State) AcceptTerms(accepted bool) {
	s.app.TermsAccepted = accepted
	s.clearError("terms_accepted")
}

// SetText updates a free-text field, applying the field's input mask.
func (s *State) SetText(field, value string) error {
	switch field {
	case "full_name":
		s.app.FullName = value
	case "tax_id":
		s.app.TaxID = validation.FormatTaxID(value)
	case "phone":
		s.app.Phone = validation.FormatPhone(value)
	case "birth_date":
		s.app.BirthDate = validation.FormatDate(value)
	case "email":
		s.app.Email = value
	case "marital_status":
		s.app.MaritalStatus = value
	case "occupation":
		s.app.Occupation = value
	case "postal_code":
		s.app.PostalCode = validation.FormatPostalCode(value)
	case "street":
		s.app.Street = value
	case "number":
		s.app.Number = value
	case "district":
		s.app.District = value
	case "city":
		s.app.City = value
	case "state":
		s.app.State = value
	case "notes":
		s.app.Notes = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	s.clearError(field)
	return nil
}

// Validate checks the whole form. On failure every violated field is
// reported, focus moves to the first one in form order, and the optional
// section is expanded when that field lives there.
func (s *State) Validate() bool {
	errs := validation.ValidateApplication(&s.app, s.now())
	if s.app.Motorcycle != "" {
		if _, ok := model.FindMotorcycle(s.catalog, s.app.Motorcycle); !ok {
			errs["motorcycle"] = validation.CodeInvalid
		}
	}
	s.errs = errs
	if errs.OK() {
		s.focus = ""
		return true
	}
	s.focus = errs.First()
	if errs.ExpandOptional() {
		s.showOptional = true
	}
	return false
}

func (s *State) pricingInput() pricing.Input {
	return pricing.Input{
		Price:       s.app.Price,
		DownPayment: s.app.DownPaymentValue(),
		Term:        s.app.Term,
		Motorcycle:  s.app.Motorcycle,
	}
}

// refresh re-resolves the quote when any pricing input differs from the
// last resolution. A blank down payment prices as zero.
func (s *State) refresh() {
	in := s.pricingInput()
	if s.computed && in == s.lastInput {
		return
	}
	s.lastInput = in
	s.quote = pricing.Resolve(in, s.rules)
	s.computed = true
}

func (s *State) clearError(field string) {
	delete(s.errs, field)
}
