package order

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// next holds the forward chain. Cancellation is handled in CanTransition:
// it is reachable from any non-terminal status and absorbing once entered.
var next = map[Status]Status{
	StatusPending:   StatusConfirmed,
	StatusConfirmed: StatusPreparing,
	StatusPreparing: StatusShipped,
	StatusShipped:   StatusDelivered,
}

func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func (s Status) CanTransition(to Status) bool {
	if s.Terminal() {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	return next[s] == to
}

type Item struct {
	ID             int64   `json:"id"`
	OrderID        int64   `json:"order_id"`
	ProductID      int64   `json:"product_id"`
	ProductName    string  `json:"product_name"`
	VariantLabel   string  `json:"variant_label,omitempty"`
	Unit           string  `json:"unit"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	LineTotal      float64 `json:"line_total"`
	SupplierID   *int64  `json:"supplier_id,omitempty"`
	SupplierName string  `json:"supplier_name,omitempty"`
	PriceSource  string  `json:"price_source"`
}

type Order struct {
	ID              int64     `json:"id"`
	Reference       string    `json:"reference"`
	UserID          int64     `json:"user_id"`
	RegionID        int64     `json:"region_id"`
	Status          Status    `json:"status"`
	Total           float64   `json:"total"`
	ShippingAddress string    `json:"shipping_address"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Items           []Item    `json:"items,omitempty"`
}
