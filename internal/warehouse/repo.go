package warehouse

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Warehouse projections deliberately carry no monetary fields. The store's
// access policies enforce the same rule server-side; these types are the
// application-side half of that contract. Do not add price columns here.

// PickingItem is one line of the shift picking list: total quantity to
// collect per product, converted to a common unit by the store procedure.
type PickingItem struct {
	ProductID     int64   `json:"product_id"`
	ProductName   string  `json:"product_name"`
	Unit          string  `json:"unit"`
	TotalQuantity float64 `json:"total_quantity"`
	OrderCount    int     `json:"order_count"`
}

// StaffOrder is the price-free order projection warehouse staff work from.
type StaffOrder struct {
	OrderID         int64     `json:"order_id"`
	Reference       string    `json:"reference"`
	Status          string    `json:"status"`
	RegionName      string    `json:"region_name"`
	ShippingAddress string    `json:"shipping_address"`
	ItemCount       int       `json:"item_count"`
	CreatedAt       time.Time `json:"created_at"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// PickingList asks the store to aggregate quantities per product over the
// shift window. Grouping, unit conversion and summing happen in the
// procedure, not here.
func (r *Repo) PickingList(ctx context.Context, from, to time.Time) ([]PickingItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT product_id, product_name, unit, total_quantity, order_count
		FROM get_picking_list($1, $2)
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PickingItem
	for rows.Next() {
		var it PickingItem
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.Unit, &it.TotalQuantity, &it.OrderCount); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) Orders(ctx context.Context) ([]StaffOrder, error) {
	rows, err := r.db.Query(ctx, `
		SELECT order_id, reference, status, region_name, shipping_address, item_count, created_at
		FROM get_warehouse_orders()
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StaffOrder
	for rows.Next() {
		var o StaffOrder
		if err := rows.Scan(&o.OrderID, &o.Reference, &o.Status, &o.RegionName,
			&o.ShippingAddress, &o.ItemCount, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// MarkPrepared runs the guarded transition procedure; the store rejects
// orders that are not in a preparable status.
func (r *Repo) MarkPrepared(ctx context.Context, orderID int64) (string, error) {
	var status string
	err := r.db.QueryRow(ctx, `SELECT mark_order_prepared($1)`, orderID).Scan(&status)
	return status, err
}
