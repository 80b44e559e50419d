package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AIlhomov/Ticketing-System/internal/domain"
)

// ArticleRepository persists knowledge base articles.
type ArticleRepository interface {
	Create(ctx context.Context, article *domain.Article) error
	GetByID(ctx context.Context, id int64) (*domain.Article, error)
	List(ctx context.Context) ([]domain.Article, error)
	Update(ctx context.Context, article *domain.Article) error
	Delete(ctx context.Context, id int64) error
}

type articleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository constructs repository.
func NewArticleRepository(pool *pgxpool.Pool) ArticleRepository {
	return &articleRepository{pool: pool}
}

func (r *articleRepository) Create(ctx context.Context, article *domain.Article) error {
	const query = `
        INSERT INTO kb_articles (title, content, category_id, created_by)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		article.Title,
		article.Content,
		article.CategoryID,
		article.CreatedBy,
	).Scan(&article.ID, &article.CreatedAt)
}

func (r *articleRepository) GetByID(ctx context.Context, id int64) (*domain.Article, error) {
	const query = `
        SELECT id, title, content, category_id, created_by, created_at
        FROM kb_articles WHERE id=$1`
	var article domain.Article
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&article.ID,
		&article.Title,
		&article.Content,
		&article.CategoryID,
		&article.CreatedBy,
		&article.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) List(ctx context.Context) ([]domain.Article, error) {
	const query = `
        SELECT id, title, content, category_id, created_by, created_at
        FROM kb_articles ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Article
	for rows.Next() {
		var article domain.Article
		if err := rows.Scan(
			&article.ID,
			&article.Title,
			&article.Content,
			&article.CategoryID,
			&article.CreatedBy,
			&article.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, article)
	}
	return result, rows.Err()
}

func (r *articleRepository) Update(ctx context.Context, article *domain.Article) error {
	const query = `
        UPDATE kb_articles SET title=$2, content=$3, category_id=$4
        WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query,
		article.ID,
		article.Title,
		article.Content,
		article.CategoryID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *articleRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM kb_articles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
