// internal/services/admin_service.go
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopatlas/affiliate-backend/internal/models"
	"github.com/shopatlas/affiliate-backend/internal/utils"
)

// AdminService covers the admin panel's supporting surface: settings,
// workflow definitions, and the dashboard snapshot.
type AdminService struct {
	db *gorm.DB
}

type WorkflowInput struct {
	Name          string `json:"name" validate:"required,max=100"`
	Active        *bool  `json:"active"`
	TriggerType   string `json:"trigger_type" validate:"required,oneof=manual schedule webhook"`
	TriggerConfig string `json:"trigger_config"`
	NodesJSON     string `json:"nodes_json"`
}

// WorkflowPatch updates only the provided fields.
type WorkflowPatch struct {
	Name          *string `json:"name"`
	Active        *bool   `json:"active"`
	TriggerType   *string `json:"trigger_type"`
	TriggerConfig *string `json:"trigger_config"`
	NodesJSON     *string `json:"nodes_json"`
}

type DashboardStats struct {
	Products   int64 `json:"products"`
	BlogPosts  int64 `json:"blog_posts"`
	Affiliates int64 `json:"affiliates"`
	Clicks     int64 `json:"clicks"`
	Orders     int64 `json:"orders"`
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// Settings

func (s *AdminService) GetSetting(key string) (string, error) {
	var setting models.Setting
	if err := s.db.First(&setting, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("database error: %w", err)
	}
	return setting.Value, nil
}

func (s *AdminService) SetSetting(key, value string) error {
	setting := models.Setting{Key: key, Value: value}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&setting).Error

	if err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}
	return nil
}

func (s *AdminService) ListSettings() (map[string]string, error) {
	var settings []models.Setting
	if err := s.db.Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}

	result := make(map[string]string, len(settings))
	for _, setting := range settings {
		result[setting.Key] = setting.Value
	}
	return result, nil
}

// Workflows

func (s *AdminService) ListWorkflows() ([]models.Workflow, error) {
	var workflows []models.Workflow
	if err := s.db.Order("created_at DESC").Find(&workflows).Error; err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}
	return workflows, nil
}

func (s *AdminService) GetWorkflow(id uint) (*models.Workflow, error) {
	var workflow models.Workflow
	if err := s.db.First(&workflow, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &workflow, nil
}

func (s *AdminService) CreateWorkflow(input *WorkflowInput) (*models.Workflow, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	workflow := &models.Workflow{
		Name:          input.Name,
		Active:        active,
		TriggerType:   models.TriggerType(input.TriggerType),
		TriggerConfig: input.TriggerConfig,
		NodesJSON:     input.NodesJSON,
	}

	if err := s.db.Create(workflow).Error; err != nil {
		return nil, fmt.Errorf("failed to create workflow: %w", err)
	}
	return workflow, nil
}

func (s *AdminService) UpdateWorkflow(id uint, patch *WorkflowPatch) (*models.Workflow, error) {
	workflow, err := s.GetWorkflow(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Active != nil {
		updates["active"] = *patch.Active
	}
	if patch.TriggerType != nil {
		updates["trigger_type"] = *patch.TriggerType
	}
	if patch.TriggerConfig != nil {
		updates["trigger_config"] = *patch.TriggerConfig
	}
	if patch.NodesJSON != nil {
		updates["nodes_json"] = *patch.NodesJSON
	}

	if len(updates) == 0 {
		return workflow, nil
	}

	if err := s.db.Model(workflow).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update workflow: %w", err)
	}
	return workflow, nil
}

// Dashboard

func (s *AdminService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.Product{}, &stats.Products},
		{&models.BlogPost{}, &stats.BlogPosts},
		{&models.Affiliate{}, &stats.Affiliates},
		{&models.Click{}, &stats.Clicks},
		{&models.Order{}, &stats.Orders},
	}

	for _, c := range counts {
		if err := s.db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count rows: %w", err)
		}
	}

	return stats, nil
}
