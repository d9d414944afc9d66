package suppliers

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Offer is a supplier-specific price for a catalog product. Offer prices
// reach the cart with price source "supplier".
type Offer struct {
	ID           int64     `json:"id"`
	SupplierID   int64     `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
	ProductID    int64     `json:"product_id"`
	ProductName  string    `json:"product_name,omitempty"`
	Price        float64   `json:"price"`
	IsAvailable  bool      `json:"is_available"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) UpsertOffer(ctx context.Context, supplierID, productID int64, price float64, available bool) (Offer, error) {
	var o Offer
	err := r.db.QueryRow(ctx, `
		INSERT INTO supplier_products (supplier_id, product_id, price, is_available)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (supplier_id, product_id)
		DO UPDATE SET price = EXCLUDED.price, is_available = EXCLUDED.is_available, updated_at = now()
		RETURNING id, supplier_id, product_id, price, is_available, updated_at
	`, supplierID, productID, price, available).Scan(
		&o.ID, &o.SupplierID, &o.ProductID, &o.Price, &o.IsAvailable, &o.UpdatedAt,
	)
	return o, err
}

func (r *Repo) ListBySupplier(ctx context.Context, supplierID int64) ([]Offer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT sp.id, sp.supplier_id, s.name, sp.product_id, p.name, sp.price, sp.is_available, sp.updated_at
		FROM supplier_products sp
		JOIN suppliers s ON s.id = sp.supplier_id
		JOIN products p ON p.id = sp.product_id
		WHERE sp.supplier_id = $1
		ORDER BY p.name ASC
	`, supplierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Offer
	for rows.Next() {
		var o Offer
		if err := rows.Scan(&o.ID, &o.SupplierID, &o.SupplierName, &o.ProductID, &o.ProductName,
			&o.Price, &o.IsAvailable, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Get loads one offer with its supplier attribution, for cart price capture.
func (r *Repo) Get(ctx context.Context, offerID int64) (Offer, error) {
	var o Offer
	err := r.db.QueryRow(ctx, `
		SELECT sp.id, sp.supplier_id, s.name, sp.product_id, sp.price, sp.is_available, sp.updated_at
		FROM supplier_products sp
		JOIN suppliers s ON s.id = sp.supplier_id
		WHERE sp.id = $1
	`, offerID).Scan(&o.ID, &o.SupplierID, &o.SupplierName, &o.ProductID, &o.Price, &o.IsAvailable, &o.UpdatedAt)
	return o, err
}

// SupplierIDForUser maps an authenticated user to their supplier record.
func (r *Repo) SupplierIDForUser(ctx context.Context, userID int64) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `SELECT id FROM suppliers WHERE user_id = $1`, userID).Scan(&id)
	return id, err
}

// Search delegates to the store's supplier/product search procedure.
func (r *Repo) Search(ctx context.Context, query string) ([]Offer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT offer_id, supplier_id, supplier_name, product_id, product_name, price, is_available
		FROM search_supplier_products($1)
	`, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Offer
	for rows.Next() {
		var o Offer
		if err := rows.Scan(&o.ID, &o.SupplierID, &o.SupplierName, &o.ProductID, &o.ProductName,
			&o.Price, &o.IsAvailable); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
