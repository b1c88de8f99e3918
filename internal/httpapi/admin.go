package httpapi

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kitbuilder587/osint-gateway/internal/domain"
)

func (h *handler) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminSessionCookie)
		if err != nil || h.sessions.verify(token) != nil {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (h *handler) handleAdminLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

func (h *handler) handleAdminLogin(c *gin.Context) {
	password := c.PostForm("password")
	if subtle.ConstantTimeCompare([]byte(password), []byte(h.cfg.Admin.Password)) != 1 {
		h.logger.Warn("admin login rejected", zap.String("ip", c.ClientIP()))
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{"Error": "invalid password"})
		return
	}

	token, err := h.sessions.issue(time.Now())
	if err != nil {
		h.logger.Error("failed to issue admin session", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"Error": "internal error"})
		return
	}

	c.SetCookie(adminSessionCookie, token, int(h.sessions.ttl.Seconds()), "/admin", "", false, true)
	c.Redirect(http.StatusFound, "/admin")
}

func (h *handler) handleAdminLogout(c *gin.Context) {
	c.SetCookie(adminSessionCookie, "", -1, "/admin", "", false, true)
	c.Redirect(http.StatusFound, "/admin/login")
}

func (h *handler) handleAdminDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.stats.Usage(ctx)
	if err != nil {
		h.logger.Error("failed to load dashboard stats", zap.Error(err))
		c.String(http.StatusInternalServerError, "failed to load stats")
		return
	}

	clientCount, err := h.clients.Count(ctx)
	if err != nil {
		h.logger.Error("failed to count clients", zap.Error(err))
		c.String(http.StatusInternalServerError, "failed to load stats")
		return
	}

	recent, err := h.history.List(ctx, 1, 20)
	if err != nil {
		h.logger.Error("failed to load recent searches", zap.Error(err))
		c.String(http.StatusInternalServerError, "failed to load history")
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Stats":       stats,
		"ClientCount": clientCount,
		"Recent":      recent.Entries,
	})
}

// handleAdminClientUpdate edits quota and access fields on one client.
// Form fields are optional; absent fields keep their current value.
func (h *handler) handleAdminClientUpdate(c *gin.Context) {
	ctx := c.Request.Context()
	token := c.Param("token")

	client, err := h.clients.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
			return
		}
		h.logger.Error("failed to load client", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load client"})
		return
	}

	if raw, ok := c.GetPostForm("daily_quota"); ok {
		quota, err := strconv.Atoi(raw)
		if err != nil || quota < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "daily_quota must be a non-negative integer"})
			return
		}
		client.DailyQuota = quota
	}
	if raw, ok := c.GetPostForm("unlimited"); ok {
		client.Unlimited = raw == "true" || raw == "on" || raw == "1"
	}
	if raw, ok := c.GetPostForm("unlimited_until"); ok {
		if raw == "" {
			client.UnlimitedUntil = nil
		} else {
			until, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unlimited_until must be RFC3339"})
				return
			}
			client.UnlimitedUntil = &until
		}
	}
	if raw, ok := c.GetPostForm("self_subject"); ok {
		client.SelfSubject = raw
	}
	if raw, ok := c.GetPostForm("active"); ok {
		client.Active = raw == "true" || raw == "on" || raw == "1"
	}

	if err := h.clients.Update(ctx, client); err != nil {
		h.logger.Error("failed to update client", zap.Error(err), zap.String("client_token", token))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update client"})
		return
	}

	h.logger.Info("client updated",
		zap.String("client_token", token),
		zap.Int("daily_quota", client.DailyQuota),
		zap.Bool("unlimited", client.Unlimited),
		zap.Bool("active", client.Active),
	)

	c.JSON(http.StatusOK, gin.H{
		"token":           client.Token,
		"daily_quota":     client.DailyQuota,
		"unlimited":       client.Unlimited,
		"unlimited_until": client.UnlimitedUntil,
		"self_subject":    client.SelfSubject,
		"active":          client.Active,
	})
}
