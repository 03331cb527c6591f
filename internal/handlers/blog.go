// internal/handlers/blog.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/shopatlas/affiliate-backend/internal/models"
	"github.com/shopatlas/affiliate-backend/internal/services"
	"github.com/shopatlas/affiliate-backend/internal/utils"
)

type BlogHandler struct {
	blogService *services.BlogService
}

func NewBlogHandler(blogService *services.BlogService) *BlogHandler {
	return &BlogHandler{blogService: blogService}
}

// GET /blog
//
// The public listing only ever shows published posts. Admins can pass
// ?status=draft (or leave it empty for all) through the admin route.
func (h *BlogHandler) GetPosts(c *gin.Context) {
	status := c.DefaultQuery("status", string(models.PostStatusPublished))

	posts, err := h.blogService.ListPosts(status)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, posts)
}

// GET /admin/blog
func (h *BlogHandler) GetAllPosts(c *gin.Context) {
	posts, err := h.blogService.ListPosts(c.Query("status"))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, posts)
}

// GET /blog/:slug
func (h *BlogHandler) GetPostBySlug(c *gin.Context) {
	post, err := h.blogService.GetPostBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err, "Post")
		return
	}
	utils.SuccessResponse(c, post)
}

// POST /admin/blog
func (h *BlogHandler) CreatePost(c *gin.Context) {
	var req services.BlogPostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	post, err := h.blogService.CreatePost(&req)
	if err != nil {
		respondServiceError(c, err, "Post")
		return
	}

	utils.CreatedResponse(c, post)
}

// PUT /admin/blog/:id
func (h *BlogHandler) UpdatePost(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid post ID", nil)
		return
	}

	var req services.BlogPostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	post, err := h.blogService.UpdatePost(id, &req)
	if err != nil {
		respondServiceError(c, err, "Post")
		return
	}

	utils.SuccessResponse(c, post)
}
