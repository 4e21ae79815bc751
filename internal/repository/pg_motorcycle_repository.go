package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nossamoto/backend/internal/model"
)

type pgMotorcycleRepository struct {
	pool *pgxpool.Pool
}

// NewPgMotorcycleRepository returns a PostgreSQL-backed MotorcycleRepository.
func NewPgMotorcycleRepository(pool *pgxpool.Pool) MotorcycleRepository {
	return &pgMotorcycleRepository{pool: pool}
}

const motorcycleSelectCols = `id, name, price, created_at, updated_at`

func scanMotorcycle(scan func(...any) error) (*model.Motorcycle, error) {
	m := &model.Motorcycle{}
	return m, scan(&m.ID, &m.Name, &m.Price, &m.CreatedAt, &m.UpdatedAt)
}

func (r *pgMotorcycleRepository) List(ctx context.Context) ([]*model.Motorcycle, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+motorcycleSelectCols+` FROM motorcycles ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*model.Motorcycle{}
	for rows.Next() {
		m, err := scanMotorcycle(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (r *pgMotorcycleRepository) GetByID(ctx context.Context, id string) (*model.Motorcycle, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+motorcycleSelectCols+` FROM motorcycles WHERE id = $1`, id)
	m, err := scanMotorcycle(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return m, err
}

func (r *pgMotorcycleRepository) Create(ctx context.Context, m *model.Motorcycle) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO motorcycles (id, name, price)
		 VALUES ($1, $2, $3)
		 RETURNING created_at, updated_at`,
		m.ID, m.Name, m.Price,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	return mapWriteErr(err)
}

func (r *pgMotorcycleRepository) CreateMany(ctx context.Context, ms []*model.Motorcycle) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, m := range ms {
		err := tx.QueryRow(ctx,
			`INSERT INTO motorcycles (id, name, price)
			 VALUES ($1, $2, $3)
			 RETURNING created_at, updated_at`,
			m.ID, m.Name, m.Price,
		).Scan(&m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return mapWriteErr(err)
		}
	}
	return tx.Commit(ctx)
}

func (r *pgMotorcycleRepository) Update(ctx context.Context, m *model.Motorcycle) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE motorcycles SET name = $2, price = $3, updated_at = NOW()
		 WHERE id = $1
		 RETURNING updated_at`,
		m.ID, m.Name, m.Price,
	).Scan(&m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return mapWriteErr(err)
}

func (r *pgMotorcycleRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM motorcycles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// mapWriteErr translates constraint violations into repository errors.
func mapWriteErr(err error) error {
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return ErrConflict
	}
	return err
}
