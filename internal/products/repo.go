package products

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"haldeki/internal/domain/product"
	"haldeki/internal/util"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const productCols = `
	p.id, p.category_id, p.name, p.slug, p.price, p.business_price, p.unit,
	COALESCE(p.origin,''), COALESCE(p.quality_grade,''), p.arrival_date,
	p.availability, p.price_change, p.previous_price, COALESCE(p.image_url,''),
	p.is_active, p.created_by, p.created_at, p.updated_at`

func scanProduct(row pgx.Row) (product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.CategoryID, &p.Name, &p.Slug, &p.Price, &p.BusinessPrice, &p.Unit,
		&p.Origin, &p.QualityGrade, &p.ArrivalDate,
		&p.Availability, &p.PriceChange, &p.PreviousPrice, &p.ImageURL,
		&p.IsActive, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// ListActive returns the base catalog ordered by name; that ordering is the
// documented tie-break input for availability sorting downstream.
func (r *Repo) ListActive(ctx context.Context, categoryID *int64) ([]product.Product, error) {
	q := `SELECT ` + productCols + ` FROM products p WHERE p.is_active = true`
	args := []any{}
	if categoryID != nil {
		q += ` AND p.category_id = $1`
		args = append(args, *categoryID)
	}
	q += ` ORDER BY p.name ASC`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []product.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// RegionInfo returns every overlay row for a region, keyed by product id.
func (r *Repo) RegionInfo(ctx context.Context, regionID int64) ([]product.RegionPriceInfo, error) {
	rows, err := r.db.Query(ctx, `
		SELECT region_id, product_id, price, previous_price, price_change,
		       availability, stock_quantity, is_in_region, business_price
		FROM region_products
		WHERE region_id = $1
	`, regionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []product.RegionPriceInfo
	for rows.Next() {
		var ri product.RegionPriceInfo
		if err := rows.Scan(
			&ri.RegionID, &ri.ProductID, &ri.Price, &ri.PreviousPrice, &ri.PriceChange,
			&ri.Availability, &ri.StockQuantity, &ri.IsInRegion, &ri.BusinessPrice,
		); err != nil {
			return nil, err
		}
		out = append(out, ri)
	}
	return out, rows.Err()
}

// RegionInfoFor fetches the single overlay for one product, nil when absent.
func (r *Repo) RegionInfoFor(ctx context.Context, regionID, productID int64) (*product.RegionPriceInfo, error) {
	var ri product.RegionPriceInfo
	err := r.db.QueryRow(ctx, `
		SELECT region_id, product_id, price, previous_price, price_change,
		       availability, stock_quantity, is_in_region, business_price
		FROM region_products
		WHERE region_id = $1 AND product_id = $2
	`, regionID, productID).Scan(
		&ri.RegionID, &ri.ProductID, &ri.Price, &ri.PreviousPrice, &ri.PriceChange,
		&ri.Availability, &ri.StockQuantity, &ri.IsInRegion, &ri.BusinessPrice,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ri, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (product.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx,
		`SELECT `+productCols+` FROM products p WHERE p.id = $1 AND p.is_active = true`, id))
	if err != nil {
		return product.Product{}, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, product_id, label, price_multiplier, is_default
		FROM product_variants
		WHERE product_id = $1
		ORDER BY id ASC
	`, p.ID)
	if err != nil {
		return product.Product{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var v product.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Label, &v.PriceMultiplier, &v.IsDefault); err != nil {
			return product.Product{}, err
		}
		p.Variants = append(p.Variants, v)
	}
	return p, rows.Err()
}

type CreateProductInput struct {
	CategoryID    int64
	Name          string
	Price         float64
	BusinessPrice *float64
	Unit          string
	Origin        string
	QualityGrade  string
	Availability  product.Availability
	ImageURL      string
	CreatedBy     int64

	Variants []CreateVariantInput
}

type CreateVariantInput struct {
	Label           string
	PriceMultiplier float64
	IsDefault       bool
}

func (r *Repo) CreateWithVariants(ctx context.Context, in CreateProductInput) (product.Product, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return product.Product{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if in.Availability == "" {
		in.Availability = product.AvailabilityPlenty
	}

	p, err := scanProduct(tx.QueryRow(ctx, `
		INSERT INTO products AS p
			(category_id, name, slug, price, business_price, unit, origin,
			 quality_grade, availability, price_change, image_url, is_active, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,'stable',$10,true,$11)
		RETURNING `+productCols+`
	`, in.CategoryID, in.Name, util.Slugify(in.Name), in.Price, in.BusinessPrice, in.Unit,
		in.Origin, in.QualityGrade, in.Availability, in.ImageURL, in.CreatedBy))
	if err != nil {
		return product.Product{}, err
	}

	for _, v := range in.Variants {
		_, err := tx.Exec(ctx, `
			INSERT INTO product_variants (product_id, label, price_multiplier, is_default)
			VALUES ($1,$2,$3,$4)
		`, p.ID, v.Label, v.PriceMultiplier, v.IsDefault)
		if err != nil {
			return product.Product{}, fmt.Errorf("variant insert failed: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return product.Product{}, err
	}
	return p, nil
}

// UpdatePrice moves the current price to previous_price and derives the
// price-change indicator in one statement.
func (r *Repo) UpdatePrice(ctx context.Context, id int64, newPrice float64) (product.Product, error) {
	return scanProduct(r.db.QueryRow(ctx, `
		UPDATE products p SET
			previous_price = p.price,
			price_change = CASE
				WHEN $2 > p.price THEN 'up'
				WHEN $2 < p.price THEN 'down'
				ELSE 'stable'
			END,
			price = $2,
			updated_at = now()
		WHERE p.id = $1
		RETURNING `+productCols, id, newPrice))
}

// PriceStats is an aggregate read served by a store procedure.
type PriceStats struct {
	ProductID int64   `json:"product_id"`
	MinPrice  float64 `json:"min_price"`
	MaxPrice  float64 `json:"max_price"`
	AvgPrice  float64 `json:"avg_price"`
	Regions   int     `json:"regions"`
}

func (r *Repo) PriceStats(ctx context.Context, productID int64) (PriceStats, error) {
	var s PriceStats
	err := r.db.QueryRow(ctx, `
		SELECT product_id, min_price, max_price, avg_price, region_count
		FROM product_price_stats($1)
	`, productID).Scan(&s.ProductID, &s.MinPrice, &s.MaxPrice, &s.AvgPrice, &s.Regions)
	return s, err
}
