package products

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"haldeki/internal/auth"
	"haldeki/internal/catalog"
	"haldeki/internal/domain/product"
)

func availabilityOf(s string) product.Availability {
	switch a := product.Availability(s); a {
	case product.AvailabilityLimited, product.AvailabilityLast:
		return a
	}
	return product.AvailabilityPlenty
}

type Handler struct {
	repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{repo: repo}
}

// Public: list products, optionally scoped to a region. With region_id the
// catalog is merged against that region's overlays, rows explicitly opted
// out of the region are dropped, and the rest sort by availability.
func (h *Handler) ListPublic(c *gin.Context) {
	var categoryID *int64
	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category_id"})
			return
		}
		categoryID = &id
	}

	items, err := h.repo.ListActive(c.Request.Context(), categoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}

	if v := c.Query("region_id"); v != "" {
		regionID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid region_id"})
			return
		}
		infos, err := h.repo.RegionInfo(c.Request.Context(), regionID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load region prices"})
			return
		}
		merged := catalog.FilterInRegion(catalog.MergeRegionInfo(items, infos))
		catalog.SortByAvailability(merged)
		c.JSON(http.StatusOK, gin.H{"items": merged})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Public: product details with variants
func (h *Handler) GetPublic(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	p, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) GetPriceStats(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	stats, err := h.repo.PriceStats(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no price data"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

type CreateProductReq struct {
	CategoryID    int64              `json:"category_id" binding:"required"`
	Name          string             `json:"name" binding:"required"`
	Price         float64            `json:"price" binding:"required,gt=0"`
	BusinessPrice *float64           `json:"business_price"`
	Unit          string             `json:"unit" binding:"required"` // kg, adet, demet, paket, lt
	Origin        string             `json:"origin"`
	QualityGrade  string             `json:"quality_grade"`
	Availability  string             `json:"availability"`
	ImageURL      string             `json:"image_url"`
	Variants      []CreateVariantReq `json:"variants"`
}

type CreateVariantReq struct {
	Label           string  `json:"label" binding:"required"` // e.g. "Kasa", "Yarım Kasa"
	PriceMultiplier float64 `json:"price_multiplier" binding:"required,gt=0"`
	IsDefault       bool    `json:"is_default"`
}

// Supplier/admin: create product + variants
func (h *Handler) Create(c *gin.Context) {
	var req CreateProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	defaults := 0
	for _, v := range req.Variants {
		if v.IsDefault {
			defaults++
		}
	}
	if defaults > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at most one default variant"})
		return
	}

	var vars []CreateVariantInput
	for _, v := range req.Variants {
		vars = append(vars, CreateVariantInput{
			Label:           v.Label,
			PriceMultiplier: v.PriceMultiplier,
			IsDefault:       v.IsDefault,
		})
	}

	p, err := h.repo.CreateWithVariants(c.Request.Context(), CreateProductInput{
		CategoryID:    req.CategoryID,
		Name:          req.Name,
		Price:         req.Price,
		BusinessPrice: req.BusinessPrice,
		Unit:          req.Unit,
		Origin:        req.Origin,
		QualityGrade:  req.QualityGrade,
		Availability:  availabilityOf(req.Availability),
		ImageURL:      req.ImageURL,
		CreatedBy:     auth.UserID(c),
		Variants:      vars,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to create product"})
		return
	}
	c.JSON(http.StatusCreated, p)
}

type UpdatePriceReq struct {
	Price float64 `json:"price" binding:"required,gt=0"`
}

func (h *Handler) UpdatePrice(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	var req UpdatePriceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	p, err := h.repo.UpdatePrice(c.Request.Context(), id, req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to update price"})
		return
	}
	c.JSON(http.StatusOK, p)
}
