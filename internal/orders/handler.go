package orders

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"haldeki/internal/auth"
	"haldeki/internal/cart"
	"haldeki/internal/domain/order"
	"haldeki/internal/domain/user"
	"haldeki/internal/logkey"
	"haldeki/internal/middleware"
)

type Handler struct {
	repo      *Repo
	cartStore cart.Storage
}

func NewHandler(repo *Repo, cartStore cart.Storage) *Handler {
	return &Handler{repo: repo, cartStore: cartStore}
}

type CheckoutReq struct {
	RegionID        int64  `json:"region_id" binding:"required"`
	ShippingAddress string `json:"shipping_address" binding:"required"`
	Notes           string `json:"notes"`
}

// Checkout turns the caller's cart into a pending order and clears the cart.
func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := auth.UserID(c)
	e := cart.NewEngine(h.cartStore, fmt.Sprintf("cart:%d", userID), nil)
	if err := e.Load(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cart"})
		return
	}
	items := e.Items()
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		return
	}

	o, err := h.repo.Checkout(c.Request.Context(), userID, req.RegionID, items, e.Total(),
		req.ShippingAddress, req.Notes)
	if err != nil {
		slog.Error("checkout failed",
			slog.String(logkey.TraceID, middleware.TraceID(c)),
			slog.Int64(logkey.UserID, userID),
			slog.String(logkey.ERROR, err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to place order"})
		return
	}

	e.Clear()
	if err := e.Save(c.Request.Context()); err != nil {
		// order is placed; a stale cart blob is recoverable, so log and move on
		slog.Warn("cart clear after checkout failed",
			slog.String(logkey.TraceID, middleware.TraceID(c)),
			slog.Int64(logkey.OrderID, o.ID),
			slog.String(logkey.ERROR, err.Error()))
	}

	slog.Info("order placed",
		slog.String(logkey.TraceID, middleware.TraceID(c)),
		slog.Int64(logkey.OrderID, o.ID),
		slog.Int64(logkey.UserID, userID),
		slog.Int64(logkey.RegionID, req.RegionID))
	c.JSON(http.StatusCreated, o)
}

func (h *Handler) MyOrders(c *gin.Context) {
	items, err := h.repo.ByUser(c.Request.Context(), auth.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) Get(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	o, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	// customers only see their own orders; staff roles see all
	if auth.Role(c) == user.RoleCustomer || auth.Role(c) == user.RoleBusiness {
		if o.UserID != auth.UserID(c) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
	}
	c.JSON(http.StatusOK, o)
}

// Cancel lets the owner cancel while the order is still non-terminal.
func (h *Handler) Cancel(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	o, err := h.repo.Get(c.Request.Context(), id)
	if err != nil || o.UserID != auth.UserID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	updated, err := h.repo.Transition(c.Request.Context(), id, order.StatusCancelled)
	if err != nil {
		if errors.Is(err, ErrBadTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": "order can no longer be cancelled"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel order"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) RegionOrders(c *gin.Context) {
	regionID, err := strconv.ParseInt(c.Query("region_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "region_id is required"})
		return
	}
	items, err := h.repo.ByRegion(c.Request.Context(), regionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type TransitionReq struct {
	Status string `json:"status" binding:"required"`
}

// Transition applies a staff status change; the state machine rejects
// anything outside pending→confirmed→preparing→shipped→delivered plus
// cancellation from any non-terminal status.
func (h *Handler) Transition(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	var req TransitionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	o, err := h.repo.Transition(c.Request.Context(), id, order.Status(req.Status))
	if err != nil {
		if errors.Is(err, ErrBadTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order"})
		return
	}

	slog.Info("order status changed",
		slog.String(logkey.TraceID, middleware.TraceID(c)),
		slog.Int64(logkey.OrderID, o.ID),
		slog.String("status", string(o.Status)))
	c.JSON(http.StatusOK, o)
}
