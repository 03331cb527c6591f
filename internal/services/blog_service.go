// internal/services/blog_service.go
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shopatlas/affiliate-backend/internal/models"
	"github.com/shopatlas/affiliate-backend/internal/utils"
)

type BlogService struct {
	db *gorm.DB
}

type BlogPostInput struct {
	Title     string `json:"title" validate:"required,max=255"`
	ContentMD string `json:"content_md" validate:"required"`
	Status    string `json:"status" validate:"omitempty,oneof=draft published"`
}

func NewBlogService(db *gorm.DB) *BlogService {
	return &BlogService{db: db}
}

func (s *BlogService) ListPosts(status string) ([]models.BlogPost, error) {
	query := s.db.Model(&models.BlogPost{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var posts []models.BlogPost
	if err := query.Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list blog posts: %w", err)
	}
	return posts, nil
}

func (s *BlogService) GetPostBySlug(slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := s.db.Where("slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &post, nil
}

func (s *BlogService) CreatePost(input *BlogPostInput) (*models.BlogPost, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	status := models.PostStatus(input.Status)
	if status == "" {
		status = models.PostStatusDraft
	}

	post := &models.BlogPost{
		Title:     input.Title,
		Slug:      utils.Slugify(input.Title),
		ContentMD: input.ContentMD,
		Status:    status,
	}

	if err := s.db.Create(post).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("post slug %q: %w", post.Slug, ErrConflict)
		}
		return nil, fmt.Errorf("failed to create blog post: %w", err)
	}
	return post, nil
}

func (s *BlogService) UpdatePost(id uint, input *BlogPostInput) (*models.BlogPost, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var post models.BlogPost
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	status := models.PostStatus(input.Status)
	if status == "" {
		status = post.Status
	}

	updates := map[string]interface{}{
		"title":      input.Title,
		"slug":       utils.Slugify(input.Title),
		"content_md": input.ContentMD,
		"status":     status,
	}

	if err := s.db.Model(&post).Updates(updates).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("post slug %q: %w", updates["slug"], ErrConflict)
		}
		return nil, fmt.Errorf("failed to update blog post: %w", err)
	}
	return &post, nil
}
