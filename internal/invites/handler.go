package invites

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"haldeki/internal/auth"
	"haldeki/internal/config"
	"haldeki/internal/domain/user"
	"haldeki/internal/logkey"
	"haldeki/internal/mail"
	"haldeki/internal/middleware"
	"haldeki/internal/util"
)

type Handler struct {
	cfg     config.Config
	repo    *Repo
	users   *auth.UserRepo
	refresh *auth.RefreshRepo
	mailer  mail.Mailer
}

func NewHandler(cfg config.Config, repo *Repo, users *auth.UserRepo, refresh *auth.RefreshRepo, mailer mail.Mailer) *Handler {
	return &Handler{cfg: cfg, repo: repo, users: users, refresh: refresh, mailer: mailer}
}

type CreateInviteReq struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

// AdminCreate issues a role invite: random token, hash stored, link mailed.
// Only the hash ever touches the database.
func (h *Handler) AdminCreate(c *gin.Context) {
	var req CreateInviteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if !user.ValidRole(req.Role) || req.Role == user.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	token, err := util.RandomToken(32)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create invite"})
		return
	}

	expiresAt := time.Now().Add(time.Duration(h.cfg.InviteTTLHours) * time.Hour)
	inv, err := h.repo.Upsert(c.Request.Context(), req.Email, req.Role, auth.HashToken(token),
		auth.UserID(c), expiresAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create invite"})
		return
	}

	link := h.cfg.AppBaseURL + h.cfg.InvitePath + "?token=" + token
	body := "Haldeki'ye " + req.Role + " olarak davet edildiniz.\n\n" +
		"Daveti kabul etmek için: " + link + "\n\n" +
		"Bağlantı " + inv.ExpiresAt.Format(time.RFC1123) + " tarihine kadar geçerlidir."
	if err := h.mailer.Send(req.Email, "Haldeki daveti", body); err != nil {
		// invite row stands; mail failures are logged, not fatal
		slog.Warn("invite mail failed",
			slog.String(logkey.TraceID, middleware.TraceID(c)), slog.String(logkey.ERROR, err.Error()))
	}

	c.JSON(http.StatusCreated, inv)
}

func (h *Handler) AdminList(c *gin.Context) {
	items, err := h.repo.ListPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list invites"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type AcceptInviteReq struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// Accept redeems an invite: an existing account gets the invited role, a new
// one is created with it.
func (h *Handler) Accept(c *gin.Context) {
	var req AcceptInviteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inv, err := h.repo.GetValid(c.Request.Context(), auth.HashToken(req.Token))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired invite"})
		return
	}

	existing, err := h.users.ByEmail(c.Request.Context(), inv.Email)
	if err == nil {
		if err := h.users.SetRole(c.Request.Context(), existing.ID, inv.Role); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to apply role"})
			return
		}
		// sessions minted under the old role stop rotating
		_ = h.refresh.RevokeAll(c.Request.Context(), existing.ID)
	} else {
		pwHash, err := auth.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "password hash failed"})
			return
		}
		if _, err := h.users.Create(c.Request.Context(), inv.Email, pwHash, inv.Role); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
			return
		}
	}

	_ = h.repo.MarkAccepted(c.Request.Context(), inv.ID)

	slog.Info("invite accepted",
		slog.String(logkey.TraceID, middleware.TraceID(c)), slog.String("role", inv.Role))
	c.JSON(http.StatusOK, gin.H{"ok": true, "role": inv.Role})
}
