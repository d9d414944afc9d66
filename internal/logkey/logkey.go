package logkey

// Shared slog attribute keys so log lines stay grep-able.
const (
	TraceID   = "trace_id"
	ERROR     = "error"
	UserID    = "user_id"
	RegionID  = "region_id"
	ProductID = "product_id"
	OrderID   = "order_id"
	CartKey   = "cart_key"
)
