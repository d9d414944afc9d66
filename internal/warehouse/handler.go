package warehouse

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"haldeki/internal/logkey"
	"haldeki/internal/middleware"
)

type Handler struct {
	repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{repo: repo}
}

// PickingList returns the aggregate for a shift window. Defaults to the
// current day when no window is given.
func (h *Handler) PickingList(c *gin.Context) {
	now := time.Now()
	from := now.Truncate(24 * time.Hour)
	to := from.Add(24 * time.Hour)

	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
			return
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to"})
			return
		}
		to = t
	}

	items, err := h.repo.PickingList(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load picking list"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "from": from, "to": to})
}

func (h *Handler) Orders(c *gin.Context) {
	items, err := h.repo.Orders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) MarkPrepared(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	status, err := h.repo.MarkPrepared(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "order cannot be marked prepared"})
		return
	}

	slog.Info("order marked prepared",
		slog.String(logkey.TraceID, middleware.TraceID(c)),
		slog.Int64(logkey.OrderID, id))
	c.JSON(http.StatusOK, gin.H{"order_id": id, "status": status})
}
