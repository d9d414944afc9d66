package regions

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"haldeki/internal/domain/region"
	"haldeki/internal/util"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const regionCols = `id, name, slug, COALESCE(delivery_note,''), is_active, sort_order, created_at, updated_at`

func (r *Repo) ListActive(ctx context.Context) ([]region.Region, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+regionCols+`
		FROM regions
		WHERE is_active = true
		ORDER BY sort_order ASC, name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []region.Region
	for rows.Next() {
		var rg region.Region
		if err := rows.Scan(&rg.ID, &rg.Name, &rg.Slug, &rg.DeliveryNote, &rg.IsActive, &rg.SortOrder, &rg.CreatedAt, &rg.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rg)
	}
	return out, rows.Err()
}

func (r *Repo) AdminListAll(ctx context.Context) ([]region.Region, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+regionCols+`
		FROM regions
		ORDER BY sort_order ASC, name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []region.Region
	for rows.Next() {
		var rg region.Region
		if err := rows.Scan(&rg.ID, &rg.Name, &rg.Slug, &rg.DeliveryNote, &rg.IsActive, &rg.SortOrder, &rg.CreatedAt, &rg.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rg)
	}
	return out, rows.Err()
}

func (r *Repo) Create(ctx context.Context, name, deliveryNote string, sortOrder int) (region.Region, error) {
	var rg region.Region
	err := r.db.QueryRow(ctx, `
		INSERT INTO regions (name, slug, delivery_note, sort_order, is_active)
		VALUES ($1, $2, $3, $4, true)
		RETURNING `+regionCols+`
	`, name, util.Slugify(name), deliveryNote, sortOrder).Scan(
		&rg.ID, &rg.Name, &rg.Slug, &rg.DeliveryNote, &rg.IsActive, &rg.SortOrder, &rg.CreatedAt, &rg.UpdatedAt,
	)
	return rg, err
}

func (r *Repo) Update(ctx context.Context, id int64, name, deliveryNote *string, sortOrder *int, isActive *bool) (region.Region, error) {
	// Keep slug synced with name if name updated (simple approach)
	var rg region.Region
	err := r.db.QueryRow(ctx, `
		UPDATE regions
		SET
		  name = COALESCE($2, name),
		  slug = CASE WHEN $2 IS NULL THEN slug ELSE $6 END,
		  delivery_note = COALESCE($3, delivery_note),
		  sort_order = COALESCE($4, sort_order),
		  is_active = COALESCE($5, is_active),
		  updated_at = now()
		WHERE id = $1
		RETURNING `+regionCols+`
	`, id, name, deliveryNote, sortOrder, isActive, func() any {
		if name == nil {
			return nil
		}
		return util.Slugify(*name)
	}()).Scan(&rg.ID, &rg.Name, &rg.Slug, &rg.DeliveryNote, &rg.IsActive, &rg.SortOrder, &rg.CreatedAt, &rg.UpdatedAt)
	return rg, err
}

// SetProductOverride upserts a region-level override of a product's terms.
func (r *Repo) SetProductOverride(ctx context.Context, regionID, productID int64, price float64, availability string, stockQty int, inRegion bool, businessPrice *float64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO region_products
			(region_id, product_id, price, price_change, availability, stock_quantity, is_in_region, business_price)
		VALUES ($1,$2,$3,'stable',$4,$5,$6,$7)
		ON CONFLICT (region_id, product_id)
		DO UPDATE SET
			previous_price = region_products.price,
			price_change = CASE
				WHEN EXCLUDED.price > region_products.price THEN 'up'
				WHEN EXCLUDED.price < region_products.price THEN 'down'
				ELSE 'stable'
			END,
			price = EXCLUDED.price,
			availability = EXCLUDED.availability,
			stock_quantity = EXCLUDED.stock_quantity,
			is_in_region = EXCLUDED.is_in_region,
			business_price = EXCLUDED.business_price
	`, regionID, productID, price, availability, stockQty, inRegion, businessPrice)
	return err
}
