// internal/models/catalog.go
package models

type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:100;not null"`
	Slug string `json:"slug" gorm:"uniqueIndex;size:100;not null"`

	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}

type Product struct {
	BaseModel
	Title                string  `json:"title" gorm:"size:255;not null"`
	Slug                 string  `json:"slug" gorm:"uniqueIndex;size:255;not null"`
	Description          string  `json:"description" gorm:"type:text"`
	Price                float64 `json:"price" gorm:"type:decimal(10,2);not null;default:0"`
	Currency             string  `json:"currency" gorm:"size:10;not null;default:'USD'"`
	ImageURL             string  `json:"image_url" gorm:"size:1024"`
	CategoryID           *uint   `json:"category_id" gorm:"index"`
	AffiliateURLTemplate string  `json:"affiliate_url_template" gorm:"size:2048"`
	Active               bool    `json:"active" gorm:"not null;default:true"`

	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}
