package cart

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"haldeki/internal/auth"
	"haldeki/internal/catalog"
	"haldeki/internal/domain/product"
	"haldeki/internal/logkey"
	"haldeki/internal/middleware"
	"haldeki/internal/products"
	"haldeki/internal/suppliers"
)

type Handler struct {
	store     Storage
	products  *products.Repo
	suppliers *suppliers.Repo
}

func NewHandler(store Storage, p *products.Repo, s *suppliers.Repo) *Handler {
	return &Handler{store: store, products: p, suppliers: s}
}

func cartKey(userID int64) string {
	return fmt.Sprintf("cart:%d", userID)
}

// notices collects engine notices so they can ride back on the response.
type notices struct {
	list []gin.H
}

func (n *notices) Notify(code, message string) {
	n.list = append(n.list, gin.H{"code": code, "message": message})
}

// engineFor hydrates the caller's cart. Load only errors on storage failure;
// corrupt blobs come back as an empty cart by design.
func (h *Handler) engineFor(c *gin.Context, n *notices) (*Engine, bool) {
	e := NewEngine(h.store, cartKey(auth.UserID(c)), n)
	if err := e.Load(c.Request.Context()); err != nil {
		slog.Error("cart load failed",
			slog.String(logkey.TraceID, middleware.TraceID(c)), slog.String(logkey.ERROR, err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cart"})
		return nil, false
	}
	return e, true
}

func (h *Handler) respond(c *gin.Context, e *Engine, n *notices) {
	c.JSON(http.StatusOK, gin.H{
		"items":   e.Items(),
		"total":   e.Total(),
		"count":   e.Count(),
		"notices": n.list,
	})
}

func (h *Handler) Get(c *gin.Context) {
	var n notices
	e, ok := h.engineFor(c, &n)
	if !ok {
		return
	}
	h.respond(c, e, &n)
}

type AddItemReq struct {
	ProductID       int64  `json:"product_id" binding:"required"`
	Quantity        int    `json:"quantity" binding:"required,gt=0"`
	RegionID        int64  `json:"region_id"`
	VariantID       *int64 `json:"variant_id"`
	SupplierOfferID *int64 `json:"supplier_offer_id"`
}

// AddItem resolves the unit price the way the storefront would — region and
// business-price aware, or from a supplier offer — and hands the resolved
// price to the engine, which freezes it on the line.
func (h *Handler) AddItem(c *gin.Context) {
	var req AddItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var n notices
	e, ok := h.engineFor(c, &n)
	if !ok {
		return
	}
	if req.RegionID != 0 {
		e.SetRegion(req.RegionID)
	}

	p, err := h.products.Get(c.Request.Context(), req.ProductID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	var opts AddOptions
	if req.VariantID != nil {
		v := findVariant(p, *req.VariantID)
		if v == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown variant"})
			return
		}
		opts.Variant = v
	}

	switch {
	case req.SupplierOfferID != nil:
		offer, err := h.suppliers.Get(c.Request.Context(), *req.SupplierOfferID)
		if err != nil || offer.ProductID != p.ID || !offer.IsAvailable {
			c.JSON(http.StatusBadRequest, gin.H{"error": "offer unavailable"})
			return
		}
		opts.UnitPrice = &offer.Price
		opts.Supplier = &SupplierRef{ID: offer.SupplierID, Name: offer.SupplierName, ProductID: offer.ID}
	case req.RegionID != 0:
		info, err := h.products.RegionInfoFor(c.Request.Context(), req.RegionID, p.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load region price"})
			return
		}
		if info != nil && !info.IsInRegion {
			c.JSON(http.StatusConflict, gin.H{"error": "product not sold in this region"})
			return
		}
		price := catalog.EffectivePrice(product.ProductWithRegion{Product: p, RegionInfo: info}, auth.Role(c))
		opts.UnitPrice = &price
	}

	if !e.Add(p, req.Quantity, opts) {
		c.JSON(http.StatusConflict, gin.H{"notices": n.list})
		return
	}
	if err := e.Save(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save cart"})
		return
	}

	slog.Info("cart item added",
		slog.String(logkey.TraceID, middleware.TraceID(c)),
		slog.Int64(logkey.UserID, auth.UserID(c)),
		slog.Int64(logkey.ProductID, p.ID),
		slog.Int("quantity", req.Quantity),
	)
	h.respond(c, e, &n)
}

type UpdateQtyReq struct {
	ProductID int64  `json:"product_id" binding:"required"`
	VariantID *int64 `json:"variant_id"`
	Quantity  int    `json:"quantity"`
	Delta     *int   `json:"delta"`
}

// UpdateQty sets or adjusts a line quantity. Dropping to zero or below
// removes the line; a missing line is a no-op.
func (h *Handler) UpdateQty(c *gin.Context) {
	var req UpdateQtyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var n notices
	e, ok := h.engineFor(c, &n)
	if !ok {
		return
	}

	if req.Delta != nil {
		e.Increment(req.ProductID, req.VariantID, *req.Delta)
	} else {
		e.SetQuantity(req.ProductID, req.VariantID, req.Quantity)
	}

	if err := e.Save(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save cart"})
		return
	}
	h.respond(c, e, &n)
}

type RemoveItemReq struct {
	ProductID int64  `json:"product_id" binding:"required"`
	VariantID *int64 `json:"variant_id"`
}

func (h *Handler) RemoveItem(c *gin.Context) {
	var req RemoveItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var n notices
	e, ok := h.engineFor(c, &n)
	if !ok {
		return
	}

	e.Remove(req.ProductID, req.VariantID)
	if err := e.Save(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save cart"})
		return
	}
	h.respond(c, e, &n)
}

func (h *Handler) Clear(c *gin.Context) {
	var n notices
	e, ok := h.engineFor(c, &n)
	if !ok {
		return
	}
	e.Clear()
	if err := e.Save(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save cart"})
		return
	}
	h.respond(c, e, &n)
}

func findVariant(p product.Product, id int64) *product.Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}
