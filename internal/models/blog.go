// internal/models/blog.go
package models

import "time"

type BlogPost struct {
	BaseModel
	Title     string     `json:"title" gorm:"size:255;not null"`
	Slug      string     `json:"slug" gorm:"uniqueIndex;size:255;not null"`
	ContentMD string     `json:"content_md" gorm:"type:text;not null"`
	Status    PostStatus `json:"status" gorm:"size:20;not null;default:'draft'"`
	UpdatedAt time.Time  `json:"updated_at"`
}
