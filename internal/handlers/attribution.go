// internal/handlers/attribution.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/shopatlas/affiliate-backend/internal/services"
	"github.com/shopatlas/affiliate-backend/internal/utils"
)

type AttributionHandler struct {
	attributionService *services.AttributionService
}

type logClickRequest struct {
	ProductID     uint   `json:"product_id" binding:"required"`
	AffiliateCode string `json:"affiliate_code"`
	Referrer      string `json:"referrer"`
}

func NewAttributionHandler(attributionService *services.AttributionService) *AttributionHandler {
	return &AttributionHandler{attributionService: attributionService}
}

// POST /clicks
func (h *AttributionHandler) LogClick(c *gin.Context) {
	var req logClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	referrer := req.Referrer
	if referrer == "" {
		referrer = c.Request.Referer()
	}

	click, err := h.attributionService.LogClick(req.ProductID, req.AffiliateCode, referrer)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, click)
}

// POST /orders
func (h *AttributionHandler) CreateOrder(c *gin.Context) {
	var req services.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	order, err := h.attributionService.CreateOrder(&req)
	if err != nil {
		respondServiceError(c, err, "Product")
		return
	}

	utils.CreatedResponse(c, order)
}

// GET /affiliates
func (h *AttributionHandler) GetAffiliates(c *gin.Context) {
	affiliates, err := h.attributionService.ListAffiliates()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, affiliates)
}

// POST /affiliates
func (h *AttributionHandler) CreateAffiliate(c *gin.Context) {
	var req services.CreateAffiliateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	affiliate, err := h.attributionService.CreateAffiliate(&req)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			utils.ConflictResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, affiliate)
}
