package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"haldeki/internal/domain/cart"
	"haldeki/internal/domain/order"
)

// ErrBadTransition marks a status change the order state machine forbids.
var ErrBadTransition = errors.New("invalid status transition")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const orderCols = `id, reference, user_id, region_id, status, total, shipping_address, COALESCE(notes,''), created_at, updated_at`

func scanOrder(row pgx.Row) (order.Order, error) {
	var o order.Order
	err := row.Scan(&o.ID, &o.Reference, &o.UserID, &o.RegionID, &o.Status, &o.Total,
		&o.ShippingAddress, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

// Checkout snapshots the cart into an order inside one transaction. Line
// amounts come from the cart's frozen add-time prices, never the live
// catalog.
func (r *Repo) Checkout(ctx context.Context, userID, regionID int64, items []cart.Item, total float64, address, notes string) (order.Order, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return order.Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o, err := scanOrder(tx.QueryRow(ctx, `
		INSERT INTO orders (reference, user_id, region_id, status, total, shipping_address, notes)
		VALUES ($1,$2,$3,'pending',$4,$5,$6)
		RETURNING `+orderCols+`
	`, uuid.NewString(), userID, regionID, total, address, notes))
	if err != nil {
		return order.Order{}, err
	}

	for _, it := range items {
		label := ""
		if it.Variant != nil {
			label = it.Variant.Label
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO order_items
				(order_id, product_id, product_name, variant_label, unit, quantity,
				 unit_price, line_total, supplier_id, supplier_name, price_source)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		`, o.ID, it.ProductID, it.Product.Name, label, it.Product.Unit, it.Quantity,
			it.UnitPriceAtAdd, it.LineTotal(), it.SupplierID, it.SupplierName, it.PriceSource)
		if err != nil {
			return order.Order{}, fmt.Errorf("order item insert failed: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return order.Order{}, err
	}
	return o, nil
}

func (r *Repo) ByUser(ctx context.Context, userID int64) ([]order.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+orderCols+` FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *Repo) ByRegion(ctx context.Context, regionID int64) ([]order.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+orderCols+` FROM orders
		WHERE region_id = $1
		ORDER BY created_at DESC
	`, regionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func collectOrders(rows pgx.Rows) ([]order.Order, error) {
	var out []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int64) (order.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return order.Order{}, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_id, product_name, COALESCE(variant_label,''), unit,
		       quantity, unit_price, line_total, supplier_id, COALESCE(supplier_name,''), price_source
		FROM order_items
		WHERE order_id = $1
		ORDER BY id ASC
	`, o.ID)
	if err != nil {
		return order.Order{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var it order.Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.VariantLabel,
			&it.Unit, &it.Quantity, &it.UnitPrice, &it.LineTotal, &it.SupplierID, &it.SupplierName,
			&it.PriceSource); err != nil {
			return order.Order{}, err
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}

// Transition applies one status change, validated against the state machine
// under a row lock so concurrent transitions serialize.
func (r *Repo) Transition(ctx context.Context, orderID int64, to order.Status) (order.Order, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return order.Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current order.Status
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&current)
	if err != nil {
		return order.Order{}, err
	}
	if !current.CanTransition(to) {
		return order.Order{}, fmt.Errorf("%w: %s -> %s", ErrBadTransition, current, to)
	}

	o, err := scanOrder(tx.QueryRow(ctx, `
		UPDATE orders SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+orderCols+`
	`, orderID, to))
	if err != nil {
		return order.Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return order.Order{}, err
	}
	return o, nil
}
