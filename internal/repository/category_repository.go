package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AIlhomov/Ticketing-System/internal/domain"
)

// CategoryRepository encapsulates category persistence.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	LookupOrCreate(ctx context.Context, name string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Delete(ctx context.Context, id int64) error
	CountTickets(ctx context.Context, id int64) (int64, error)
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository instantiates repository.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	const query = `
        INSERT INTO categories (name)
        VALUES ($1)
        RETURNING id`
	return r.pool.QueryRow(ctx, query, category.Name).Scan(&category.ID)
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	const query = `SELECT id, name FROM categories WHERE id=$1`
	var category domain.Category
	if err := r.pool.QueryRow(ctx, query, id).Scan(&category.ID, &category.Name); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	const query = `SELECT id, name FROM categories WHERE name=$1`
	var category domain.Category
	if err := r.pool.QueryRow(ctx, query, name).Scan(&category.ID, &category.Name); err != nil {
		return nil, err
	}
	return &category, nil
}

// LookupOrCreate resolves a category by exact name, inserting it when absent.
// The unique constraint on name plus ON CONFLICT DO NOTHING makes concurrent
// creates of the same name converge on a single row.
func (r *categoryRepository) LookupOrCreate(ctx context.Context, name string) (*domain.Category, error) {
	const insert = `
        INSERT INTO categories (name)
        VALUES ($1)
        ON CONFLICT (name) DO NOTHING
        RETURNING id`
	var id int64
	err := r.pool.QueryRow(ctx, insert, name).Scan(&id)
	if err == nil {
		return &domain.Category{ID: id, Name: name}, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}
	// Lost the race or the category already existed; the row is there now.
	return r.GetByName(ctx, name)
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	const query = `SELECT id, name FROM categories ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}

func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *categoryRepository) CountTickets(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE category_id=$1`, id).Scan(&count)
	return count, err
}
