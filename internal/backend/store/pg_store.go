package store

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/abgdnv/produtos/internal/errors"
	"github.com/abgdnv/produtos/internal/product"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	findAllQuery  = `SELECT id, nome, descricao, round(preco, 2)::text FROM produtos ORDER BY id`
	findByIDQuery = `SELECT id, nome, descricao, round(preco, 2)::text FROM produtos WHERE id = $1`
	createQuery   = `INSERT INTO produtos (nome, descricao, preco) VALUES ($1, $2, $3::numeric)
RETURNING id, nome, descricao, round(preco, 2)::text`
	updateQuery = `UPDATE produtos SET nome = $2, descricao = $3, preco = $4::numeric, updated_at = now()
WHERE id = $1
RETURNING id, nome, descricao, round(preco, 2)::text`
	deleteQuery = `DELETE FROM produtos WHERE id = $1`
)

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

var _ ProductStore = (*PgStore)(nil)

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

// FindAll retrieves all products ordered by id.
func (p *PgStore) FindAll(ctx context.Context) ([]product.Product, error) {
	rows, err := p.db.Query(ctx, findAllQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}
	if products == nil {
		products = []product.Product{}
	}
	return products, nil
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id int64) (product.Product, error) {
	found, err := p.one(ctx, findByIDQuery, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return product.Product{}, perrors.ErrProductNotFound
		}
		return product.Product{}, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return found, nil
}

// Create adds a new product.
func (p *PgStore) Create(ctx context.Context, d product.Draft) (product.Product, error) {
	created, err := p.one(ctx, createQuery, d.Name, d.Description, d.Price)
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to create product: %w", err)
	}
	return created, nil
}

// Update modifies an existing product's details.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) Update(ctx context.Context, id int64, d product.Draft) (product.Product, error) {
	updated, err := p.one(ctx, updateQuery, id, d.Name, d.Description, d.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return product.Product{}, perrors.ErrProductNotFound
		}
		return product.Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	return updated, nil
}

// DeleteByID removes a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) DeleteByID(ctx context.Context, id int64) error {
	tag, err := p.db.Exec(ctx, deleteQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete product by ID: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return perrors.ErrProductNotFound
	}
	return nil
}

func (p *PgStore) one(ctx context.Context, query string, args ...any) (product.Product, error) {
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return product.Product{}, err
	}
	return pgx.CollectExactlyOneRow(rows, scanProduct)
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var pr product.Product
	err := row.Scan(&pr.ID, &pr.Name, &pr.Description, &pr.Price)
	return pr, err
}
