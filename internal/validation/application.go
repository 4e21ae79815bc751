package validation

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/nossamoto/backend/internal/model"
)

// Field error codes.
const (
	CodeRequired        = "required"
	CodeInvalid         = "invalid"
	CodeLessThanPrice   = "must_be_less_than_price"
	CodeMustAcceptTerms = "must_accept_terms"
	CodeTooLong         = "too_long"
)

const (
	maxFullNameLength   = 200
	maxOccupationLength = 120
	birthDateLayoutBR   = "02/01/2006"
	birthDateLayoutISO  = "2006-01-02"
)

// FormOrder lists every validated field in the order it appears on the form.
var FormOrder = []string{
	"full_name",
	"tax_id",
	"phone",
	"birth_date",
	"motorcycle",
	"down_payment",
	"term",
	"email",
	"marital_status",
	"monthly_income",
	"occupation",
	"postal_code",
	"street",
	"number",
	"district",
	"city",
	"state",
	"terms_accepted",
}

var optionalFields = map[string]bool{
	"email":          true,
	"marital_status": true,
	"monthly_income": true,
	"occupation":     true,
	"postal_code":    true,
	"street":         true,
	"number":         true,
	"district":       true,
	"city":           true,
	"state":          true,
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	statePattern = regexp.MustCompile(`^[A-Za-z]{2}$`)
)

// FieldErrors maps a field name to its error code.
type FieldErrors map[string]string

// OK reports whether no field failed.
func (fe FieldErrors) OK() bool {
	return len(fe) == 0
}

// First returns the first violated field in form order.
func (fe FieldErrors) First() string {
	for _, f := range FormOrder {
		if _, ok := fe[f]; ok {
			return f
		}
	}
	return ""
}

// ExpandOptional reports whether the first violated field is in the optional
// section, which must then be shown before focusing it.
func (fe FieldErrors) ExpandOptional() bool {
	return IsOptional(fe.First())
}

// IsOptional reports whether field belongs to the optional section.
func IsOptional(field string) bool {
	return optionalFields[field]
}

// ValidateApplication checks every field at once and returns all violations.
func ValidateApplication(app *model.Application, now time.Time) FieldErrors {
	errs := FieldErrors{}

	name := strings.TrimSpace(app.FullName)
	switch {
	case name == "":
		errs["full_name"] = CodeRequired
	case len([]rune(name)) > maxFullNameLength:
		errs["full_name"] = CodeTooLong
	}

	switch {
	case Digits(app.TaxID) == "":
		errs["tax_id"] = CodeRequired
	case !ValidTaxID(app.TaxID):
		errs["tax_id"] = CodeInvalid
	}

	if len(Digits(app.Phone)) != 11 {
		errs["phone"] = CodeInvalid
	}

	if strings.TrimSpace(app.BirthDate) == "" {
		errs["birth_date"] = CodeRequired
	} else if _, err := ParseBirthDate(app.BirthDate, now); err != nil {
		errs["birth_date"] = CodeInvalid
	}

	if app.Motorcycle == "" {
		errs["motorcycle"] = CodeRequired
	}

	switch {
	case app.DownPayment == nil:
		errs["down_payment"] = CodeRequired
	case *app.DownPayment < 0:
		errs["down_payment"] = CodeInvalid
	case app.Price > 0 && *app.DownPayment >= app.Price:
		errs["down_payment"] = CodeLessThanPrice
	}

	if app.Term <= 0 {
		errs["term"] = CodeRequired
	}

	if !app.TermsAccepted {
		errs["terms_accepted"] = CodeMustAcceptTerms
	}

	validateOptional(app, errs)
	return errs
}

func validateOptional(app *model.Application, errs FieldErrors) {
	if e := strings.TrimSpace(app.Email); e != "" && !emailPattern.MatchString(e) {
		errs["email"] = CodeInvalid
	}
	if app.MaritalStatus != "" && !slices.Contains(model.MaritalStatuses, app.MaritalStatus) {
		errs["marital_status"] = CodeInvalid
	}
	if app.MonthlyIncome != nil && *app.MonthlyIncome < 0 {
		errs["monthly_income"] = CodeInvalid
	}
	if len([]rune(app.Occupation)) > maxOccupationLength {
		errs["occupation"] = CodeTooLong
	}
	if app.PostalCode != "" && len(Digits(app.PostalCode)) != 8 {
		errs["postal_code"] = CodeInvalid
	}
	if app.State != "" && !statePattern.MatchString(strings.TrimSpace(app.State)) {
		errs["state"] = CodeInvalid
	}
}

// ParseBirthDate accepts DD/MM/YYYY or YYYY-MM-DD and rejects dates that are
// not in the past.
func ParseBirthDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(birthDateLayoutBR, s)
	if err != nil {
		var isoErr error
		t, isoErr = time.Parse(birthDateLayoutISO, s)
		if isoErr != nil {
			return time.Time{}, err
		}
	}
	if !t.Before(now) {
		return time.Time{}, errFutureDate
	}
	return t, nil
}
