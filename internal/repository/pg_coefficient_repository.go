package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nossamoto/backend/internal/model"
)

type pgCoefficientRepository struct {
	pool *pgxpool.Pool
}

// NewPgCoefficientRepository returns a PostgreSQL-backed CoefficientRepository.
func NewPgCoefficientRepository(pool *pgxpool.Pool) CoefficientRepository {
	return &pgCoefficientRepository{pool: pool}
}

const coefficientSelectCols = `id, term, down_payment_min, down_payment_max, value,
	motorcycle, bank, created_at, updated_at`

func scanCoefficient(scan func(...any) error) (*model.CoefficientRule, error) {
	c := &model.CoefficientRule{}
	return c, scan(
		&c.ID, &c.Term, &c.DownPaymentMin, &c.DownPaymentMax, &c.Value,
		&c.Motorcycle, &c.Bank, &c.CreatedAt, &c.UpdatedAt,
	)
}

func (r *pgCoefficientRepository) List(ctx context.Context) ([]*model.CoefficientRule, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+coefficientSelectCols+`
		 FROM coefficient_rules
		 ORDER BY term, down_payment_min, seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*model.CoefficientRule{}
	for rows.Next() {
		c, err := scanCoefficient(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *pgCoefficientRepository) GetByID(ctx context.Context, id string) (*model.CoefficientRule, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+coefficientSelectCols+` FROM coefficient_rules WHERE id = $1`, id)
	c, err := scanCoefficient(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

const insertCoefficientSQL = `INSERT INTO coefficient_rules
	(id, term, down_payment_min, down_payment_max, value, motorcycle, bank)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING created_at, updated_at`

func (r *pgCoefficientRepository) Create(ctx context.Context, c *model.CoefficientRule) error {
	err := r.pool.QueryRow(ctx, insertCoefficientSQL,
		c.ID, c.Term, c.DownPaymentMin, c.DownPaymentMax, c.Value, c.Motorcycle, c.Bank,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	return mapWriteErr(err)
}

func (r *pgCoefficientRepository) CreateMany(ctx context.Context, cs []*model.CoefficientRule) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, c := range cs {
		err := tx.QueryRow(ctx, insertCoefficientSQL,
			c.ID, c.Term, c.DownPaymentMin, c.DownPaymentMax, c.Value, c.Motorcycle, c.Bank,
		).Scan(&c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return mapWriteErr(err)
		}
	}
	return tx.Commit(ctx)
}

func (r *pgCoefficientRepository) Update(ctx context.Context, c *model.CoefficientRule) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE coefficient_rules
		 SET term = $2, down_payment_min = $3, down_payment_max = $4, value = $5,
		     motorcycle = $6, bank = $7, updated_at = NOW()
		 WHERE id = $1
		 RETURNING updated_at`,
		c.ID, c.Term, c.DownPaymentMin, c.DownPaymentMax, c.Value, c.Motorcycle, c.Bank,
	).Scan(&c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return mapWriteErr(err)
}

func (r *pgCoefficientRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM coefficient_rules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
