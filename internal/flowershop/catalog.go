package flowershop

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CatalogService reads the product catalog.
type CatalogService struct {
	db *sql.DB
}

func NewCatalogService(db *sql.DB) *CatalogService {
	return &CatalogService{db: db}
}

// List returns the catalog, optionally filtered by maximum price.
func (s *CatalogService) List(ctx context.Context, maxPrice *float64) ([]Product, error) {
	query := `
		SELECT id, title, description, price_amount, currency, image_url, in_stock
		FROM product
	`
	args := []any{}
	if maxPrice != nil {
		query += " WHERE price_amount <= ?"
		args = append(args, *maxPrice)
	}
	query += " ORDER BY id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog list: %w", err)
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, scanErr := scanProduct(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the product with the given id, or ErrProductNotFound.
func (s *CatalogService) Get(ctx context.Context, id string) (*Product, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, price_amount, currency, image_url, in_stock
		FROM product
		WHERE id = ?
	`, id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

type productScanner interface {
	Scan(dest ...any) error
}

func scanProduct(scan productScanner) (Product, error) {
	var (
		p          Product
		inStockRaw int
	)
	if err := scan.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Price.Amount,
		&p.Price.Currency,
		&p.ImageURL,
		&inStockRaw,
	); err != nil {
		return Product{}, err
	}
	p.InStock = inStockRaw == 1
	return p, nil
}
