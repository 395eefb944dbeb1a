package flowershop

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// OrderService reads completed orders.
type OrderService struct {
	db *sql.DB
}

func NewOrderService(db *sql.DB) *OrderService {
	return &OrderService{db: db}
}

// Get returns the order with the given id, or ErrOrderNotFound.
func (s *OrderService) Get(ctx context.Context, id string) (*Order, error) {
	var payload string
	row := s.db.QueryRowContext(ctx, "SELECT payload FROM shop_order WHERE id = ?", id)
	if err := row.Scan(&payload); errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	} else if err != nil {
		return nil, err
	}

	var order Order
	if err := json.Unmarshal([]byte(payload), &order); err != nil {
		return nil, fmt.Errorf("order scan payload: %w", err)
	}
	return &order, nil
}

// List returns all orders, oldest first.
func (s *OrderService) List(ctx context.Context) ([]Order, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT payload FROM shop_order ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("order list: %w", err)
	}
	defer rows.Close()

	out := make([]Order, 0)
	for rows.Next() {
		var payload string
		if scanErr := rows.Scan(&payload); scanErr != nil {
			return nil, scanErr
		}
		var order Order
		if err := json.Unmarshal([]byte(payload), &order); err != nil {
			return nil, fmt.Errorf("order list payload: %w", err)
		}
		out = append(out, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
