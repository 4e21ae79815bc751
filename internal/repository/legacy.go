package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nossamoto/backend/internal/model"
)

// Keys of the device-local layout. Each key holds one JSON array.
const (
	KeySubmissions  = "formSubmissions"
	KeyMotorcycles  = "kb_motorcycles"
	KeyCoefficients = "kb_coefficients"
)

// flexID accepts both numeric (epoch-millis) and string identifiers.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	if string(b) == "null" {
		*f = ""
		return nil
	}
	*f = flexID(string(b))
	return nil
}

// flexFloat accepts a JSON number or a numeric string, with either a dot or a
// comma as decimal separator. A blank string decodes as zero.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*f = 0
	case float64:
		*f = flexFloat(v)
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("parse number %q: %w", v, err)
		}
		*f = flexFloat(n)
	default:
		return fmt.Errorf("unexpected number value %s", b)
	}
	return nil
}

// flexCents is a money amount in centavos. Strings are read digits-only, so
// both "2199000" and "R$ 21.990,00" decode to 2199000. A blank string or null
// decodes as not set.
type flexCents struct {
	Value int64
	Valid bool
}

func centsOf(v int64) flexCents { return flexCents{Value: v, Valid: true} }

func centsPtr(v *int64) flexCents {
	if v == nil {
		return flexCents{}
	}
	return centsOf(*v)
}

func (f flexCents) Ptr() *int64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

func (f flexCents) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(f.Value, 10)), nil
}

func (f *flexCents) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*f = flexCents{}
	case float64:
		*f = centsOf(int64(v))
	case string:
		d := digitsOnly(v)
		if d == "" {
			*f = flexCents{}
			return nil
		}
		n, err := strconv.ParseInt(d, 10, 64)
		if err != nil {
			return fmt.Errorf("parse amount %q: %w", v, err)
		}
		*f = centsOf(n)
	default:
		return fmt.Errorf("unexpected amount value %s", b)
	}
	return nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

type storedMotorcycle struct {
	ID    flexID    `json:"id"`
	Name  string    `json:"name"`
	Price flexCents `json:"price"`
}

func (s storedMotorcycle) toModel() *model.Motorcycle {
	return &model.Motorcycle{ID: string(s.ID), Name: s.Name, Price: s.Price.Value}
}

func fromMotorcycle(m *model.Motorcycle) storedMotorcycle {
	return storedMotorcycle{ID: flexID(m.ID), Name: m.Name, Price: centsOf(m.Price)}
}

type storedCoefficient struct {
	ID             flexID    `json:"id"`
	Term           flexFloat `json:"term"`
	DownPaymentMin flexFloat `json:"downPaymentMin"`
	DownPaymentMax flexFloat `json:"downPaymentMax"`
	Value          flexFloat `json:"value"`
	Motorcycle     string    `json:"motorcycle,omitempty"`
	Bank           string    `json:"bank,omitempty"`
}

func (s storedCoefficient) toModel() *model.CoefficientRule {
	return &model.CoefficientRule{
		ID:             string(s.ID),
		Term:           int(s.Term),
		DownPaymentMin: float64(s.DownPaymentMin),
		DownPaymentMax: float64(s.DownPaymentMax),
		Value:          float64(s.Value),
		Motorcycle:     s.Motorcycle,
		Bank:           s.Bank,
	}
}

func fromCoefficient(c *model.CoefficientRule) storedCoefficient {
	return storedCoefficient{
		ID:             flexID(c.ID),
		Term:           flexFloat(c.Term),
		DownPaymentMin: flexFloat(c.DownPaymentMin),
		DownPaymentMax: flexFloat(c.DownPaymentMax),
		Value:          flexFloat(c.Value),
		Motorcycle:     c.Motorcycle,
		Bank:           c.Bank,
	}
}

type storedSubmission struct {
	ID             flexID    `json:"id"`
	SubmissionDate time.Time `json:"submissionDate"`
	FullName       string    `json:"nomeCompleto"`
	TaxID          string    `json:"cpf"`
	Email          string    `json:"email"`
	Phone          string    `json:"telefone"`
	MaritalStatus  string    `json:"estadoCivil"`
	BirthDate      string    `json:"dataNascimento"`
	MonthlyIncome  flexCents `json:"rendaMensal"`
	Occupation     string    `json:"profissao"`
	PostalCode     string    `json:"cep"`
	Street         string    `json:"logradouro"`
	Number         string    `json:"numero"`
	District       string    `json:"bairro"`
	City           string    `json:"cidade"`
	State          string    `json:"uf"`
	Motorcycle     string    `json:"modeloMoto"`
	Price          flexCents `json:"valorMoto"`
	DownPayment    flexCents `json:"valorEntrada"`
	Term           flexFloat `json:"prazoPagamento"`
	Notes          string    `json:"observacoes"`
	TermsAccepted  bool      `json:"aceiteTermos"`
	Installment    flexCents `json:"valorParcela"`
	Lender         string    `json:"bancoParcela"`
}

func (s storedSubmission) toModel() *model.Submission {
	return &model.Submission{
		ID: string(s.ID),
		Application: model.Application{
			FullName:      s.FullName,
			TaxID:         digitsOnly(s.TaxID),
			Phone:         digitsOnly(s.Phone),
			BirthDate:     s.BirthDate,
			Motorcycle:    s.Motorcycle,
			Price:         s.Price.Value,
			DownPayment:   s.DownPayment.Ptr(),
			Term:          int(s.Term),
			TermsAccepted: s.TermsAccepted,
			Email:         s.Email,
			MaritalStatus: s.MaritalStatus,
			MonthlyIncome: s.MonthlyIncome.Ptr(),
			Occupation:    s.Occupation,
			PostalCode:    digitsOnly(s.PostalCode),
			Street:        s.Street,
			Number:        s.Number,
			District:      s.District,
			City:          s.City,
			State:         s.State,
			Notes:         s.Notes,
		},
		Installment: s.Installment.Value,
		Lender:      s.Lender,
		SubmittedAt: s.SubmissionDate,
	}
}

func fromSubmission(m *model.Submission) storedSubmission {
	return storedSubmission{
		ID:             flexID(m.ID),
		SubmissionDate: m.SubmittedAt.UTC(),
		FullName:       m.FullName,
		TaxID:          m.TaxID,
		Email:          m.Email,
		Phone:          m.Phone,
		MaritalStatus:  m.MaritalStatus,
		BirthDate:      m.BirthDate,
		MonthlyIncome:  centsPtr(m.MonthlyIncome),
		Occupation:     m.Occupation,
		PostalCode:     m.PostalCode,
		Street:         m.Street,
		Number:         m.Number,
		District:       m.District,
		City:           m.City,
		State:          m.State,
		Motorcycle:     m.Motorcycle,
		Price:          centsOf(m.Price),
		DownPayment:    centsPtr(m.DownPayment),
		Term:           flexFloat(m.Term),
		Notes:          m.Notes,
		TermsAccepted:  m.TermsAccepted,
		Installment:    centsOf(m.Installment),
		Lender:         m.Lender,
	}
}

// LegacyDump is the content of an exported device-local store.
type LegacyDump struct {
	Motorcycles  []*model.Motorcycle
	Coefficients []*model.CoefficientRule
	// Submissions are in storage order, oldest first.
	Submissions []*model.Submission
}

// DecodeLegacyDump reads an exported device-local store: a JSON object keyed
// by formSubmissions, kb_motorcycles and kb_coefficients. Each value may be
// the array itself or a string holding the serialized array. Coefficient
// rules are backfilled with the wildcard scope and unknown lender and sorted.
func DecodeLegacyDump(r io.Reader) (*LegacyDump, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode dump: %w", err)
	}

	var (
		motos []storedMotorcycle
		coefs []storedCoefficient
		subs  []storedSubmission
	)
	if err := decodeKey(raw[KeyMotorcycles], &motos); err != nil {
		return nil, fmt.Errorf("%s: %w", KeyMotorcycles, err)
	}
	if err := decodeKey(raw[KeyCoefficients], &coefs); err != nil {
		return nil, fmt.Errorf("%s: %w", KeyCoefficients, err)
	}
	if err := decodeKey(raw[KeySubmissions], &subs); err != nil {
		return nil, fmt.Errorf("%s: %w", KeySubmissions, err)
	}

	dump := &LegacyDump{
		Motorcycles:  make([]*model.Motorcycle, 0, len(motos)),
		Coefficients: make([]*model.CoefficientRule, 0, len(coefs)),
		Submissions:  make([]*model.Submission, 0, len(subs)),
	}
	for _, m := range motos {
		dump.Motorcycles = append(dump.Motorcycles, m.toModel())
	}
	for _, c := range coefs {
		dump.Coefficients = append(dump.Coefficients, c.toModel())
	}
	model.BackfillCoefficientDefaults(dump.Coefficients)
	model.SortCoefficientRules(dump.Coefficients)
	for _, s := range subs {
		dump.Submissions = append(dump.Submissions, s.toModel())
	}
	return dump, nil
}

// decodeKey unmarshals a stored array, unwrapping it first when it was
// serialized into a string.
func decodeKey(b json.RawMessage, v any) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			return nil
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, v)
}
