// internal/handlers/redirect.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopatlas/affiliate-backend/internal/services"
	"github.com/shopatlas/affiliate-backend/internal/utils"
)

type RedirectHandler struct {
	redirectService *services.RedirectService
}

func NewRedirectHandler(redirectService *services.RedirectService) *RedirectHandler {
	return &RedirectHandler{redirectService: redirectService}
}

// GET /go/:slug
//
// Responds with a 302 to the outbound affiliate URL.
func (h *RedirectHandler) Redirect(c *gin.Context) {
	target, err := h.redirectService.Resolve(
		c.Param("slug"),
		c.Query("aff"),
		c.Request.Referer(),
	)
	if err != nil {
		respondServiceError(c, err, "Product")
		return
	}

	c.Redirect(http.StatusFound, target)
}

// GET /redirect?p=<slug>&a=<code>&ref=<referrer>
//
// Storefront variant of the redirect: resolves the target URL and logs
// the click, but returns the target as JSON so the frontend can
// navigate itself.
func (h *RedirectHandler) ResolveTarget(c *gin.Context) {
	referrer := c.Query("ref")
	if referrer == "" {
		referrer = c.Request.Referer()
	}

	target, err := h.redirectService.Resolve(c.Query("p"), c.Query("a"), referrer)
	if err != nil {
		respondServiceError(c, err, "Product")
		return
	}

	utils.SuccessResponse(c, gin.H{"target_url": target})
}
