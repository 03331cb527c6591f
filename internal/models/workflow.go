// internal/models/workflow.go
package models

// Workflow stores an automation definition (trigger plus node graph as
// raw JSON). Definitions are persisted and managed from the admin panel;
// there is no in-process runner.
type Workflow struct {
	BaseModel
	Name          string      `json:"name" gorm:"size:100;not null"`
	Active        bool        `json:"active" gorm:"not null;default:true"`
	TriggerType   TriggerType `json:"trigger_type" gorm:"size:20;not null"`
	TriggerConfig string      `json:"trigger_config" gorm:"type:text;not null"`
	NodesJSON     string      `json:"nodes_json" gorm:"type:text;not null"`
}
