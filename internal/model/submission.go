package model

import "time"

// MaritalStatuses lists the accepted values for Application.MaritalStatus.
var MaritalStatuses = []string{
	"Solteiro(a)",
	"Casado(a)",
	"Divorciado(a)",
	"Viúvo(a)",
	"União Estável",
}

// Application is the applicant's simulation form as posted by the client.
// Document and phone fields may arrive masked; they are normalised to digits
// before persistence.
type Application struct {
	FullName      string `json:"full_name"`
	TaxID         string `json:"tax_id"`
	Phone         string `json:"phone"`
	BirthDate     string `json:"birth_date"`
	Motorcycle    string `json:"motorcycle"`
	Price         int64  `json:"price"`
	DownPayment   *int64 `json:"down_payment"` // nil when the field was left blank
	Term          int    `json:"term"`
	TermsAccepted bool   `json:"terms_accepted"`

	Email         string `json:"email,omitempty"`
	MaritalStatus string `json:"marital_status,omitempty"`
	MonthlyIncome *int64 `json:"monthly_income,omitempty"`
	Occupation    string `json:"occupation,omitempty"`
	PostalCode    string `json:"postal_code,omitempty"`
	Street        string `json:"street,omitempty"`
	Number        string `json:"number,omitempty"`
	District      string `json:"district,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// DownPaymentValue returns the down payment, treating a blank field as zero.
func (a *Application) DownPaymentValue() int64 {
	if a.DownPayment == nil {
		return 0
	}
	return *a.DownPayment
}

// Submission is an immutable record of one completed simulation.
type Submission struct {
	ID string `json:"id"`
	Application
	Installment int64     `json:"installment"` // centavos, 0 when no estimate was available
	Lender      string    `json:"lender"`
	SubmittedAt time.Time `json:"submitted_at"`
}
