package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nossamoto/backend/internal/model"
)

type pgSubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewPgSubmissionRepository returns a PostgreSQL-backed SubmissionRepository.
func NewPgSubmissionRepository(pool *pgxpool.Pool) SubmissionRepository {
	return &pgSubmissionRepository{pool: pool}
}

const submissionSelectCols = `id, full_name, tax_id, phone, birth_date, motorcycle, price,
	down_payment, term, terms_accepted, email, marital_status, monthly_income, occupation,
	postal_code, street, number, district, city, state, notes,
	installment, lender, submitted_at`

func scanSubmission(scan func(...any) error) (*model.Submission, error) {
	s := &model.Submission{}
	return s, scan(
		&s.ID, &s.FullName, &s.TaxID, &s.Phone, &s.BirthDate, &s.Motorcycle, &s.Price,
		&s.DownPayment, &s.Term, &s.TermsAccepted, &s.Email, &s.MaritalStatus,
		&s.MonthlyIncome, &s.Occupation,
		&s.PostalCode, &s.Street, &s.Number, &s.District, &s.City, &s.State, &s.Notes,
		&s.Installment, &s.Lender, &s.SubmittedAt,
	)
}

func (r *pgSubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO submissions
		 (id, full_name, tax_id, phone, birth_date, motorcycle, price,
		  down_payment, term, terms_accepted, email, marital_status, monthly_income, occupation,
		  postal_code, street, number, district, city, state, notes,
		  installment, lender, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		         $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`,
		s.ID, s.FullName, s.TaxID, s.Phone, s.BirthDate, s.Motorcycle, s.Price,
		s.DownPayment, s.Term, s.TermsAccepted, s.Email, s.MaritalStatus,
		s.MonthlyIncome, s.Occupation,
		s.PostalCode, s.Street, s.Number, s.District, s.City, s.State, s.Notes,
		s.Installment, s.Lender, s.SubmittedAt,
	)
	return mapWriteErr(err)
}

func (r *pgSubmissionRepository) List(ctx context.Context) ([]*model.Submission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+submissionSelectCols+`
		 FROM submissions
		 ORDER BY submitted_at DESC, seq DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*model.Submission{}
	for rows.Next() {
		s, err := scanSubmission(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
