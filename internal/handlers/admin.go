// internal/handlers/admin.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/shopatlas/affiliate-backend/internal/services"
	"github.com/shopatlas/affiliate-backend/internal/utils"
)

// AdminHandler serves the admin panel surface: users, settings,
// workflow definitions, and the dashboard snapshot.
type AdminHandler struct {
	adminService *services.AdminService
	authService  *services.AuthService
}

type settingRequest struct {
	Value string `json:"value"`
}

func NewAdminHandler(adminService *services.AdminService, authService *services.AuthService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		authService:  authService,
	}
}

// Users

// GET /admin/users
func (h *AdminHandler) GetUsers(c *gin.Context) {
	users, err := h.authService.ListUsers()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, users)
}

// POST /admin/users
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	user, err := h.authService.CreateUser(&req)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			utils.ConflictResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, user)
}

// Settings

// GET /settings/:key
func (h *AdminHandler) GetSetting(c *gin.Context) {
	key := c.Param("key")

	value, err := h.adminService.GetSetting(key)
	if err != nil {
		respondServiceError(c, err, "Setting")
		return
	}

	utils.SuccessResponse(c, gin.H{"key": key, "value": value})
}

// PUT /admin/settings/:key
func (h *AdminHandler) SetSetting(c *gin.Context) {
	var req settingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	key := c.Param("key")
	if err := h.adminService.SetSetting(key, req.Value); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"key": key, "value": req.Value})
}

// GET /settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.adminService.ListSettings()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, settings)
}

// Workflows

// GET /admin/workflows
func (h *AdminHandler) GetWorkflows(c *gin.Context) {
	workflows, err := h.adminService.ListWorkflows()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, workflows)
}

// GET /admin/workflows/:id
func (h *AdminHandler) GetWorkflow(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid workflow ID", nil)
		return
	}

	workflow, err := h.adminService.GetWorkflow(id)
	if err != nil {
		respondServiceError(c, err, "Workflow")
		return
	}

	utils.SuccessResponse(c, workflow)
}

// POST /admin/workflows
func (h *AdminHandler) CreateWorkflow(c *gin.Context) {
	var req services.WorkflowInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	workflow, err := h.adminService.CreateWorkflow(&req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, workflow)
}

// PUT /admin/workflows/:id
func (h *AdminHandler) UpdateWorkflow(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid workflow ID", nil)
		return
	}

	var req services.WorkflowPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	workflow, err := h.adminService.UpdateWorkflow(id, &req)
	if err != nil {
		respondServiceError(c, err, "Workflow")
		return
	}

	utils.SuccessResponse(c, workflow)
}

// Dashboard

// GET /admin/dashboard/stats
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, stats)
}
