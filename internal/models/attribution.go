// internal/models/attribution.go
package models

// Affiliate identifies a referring partner. The code is the external
// token that shows up in tracked links; rows are never updated once
// clicks or orders reference them.
type Affiliate struct {
	BaseModel
	Name string `json:"name" gorm:"size:100;not null"`
	Code string `json:"code" gorm:"uniqueIndex;size:50;not null"`
}

// Order snapshots price and currency at creation time, so later product
// edits do not rewrite attribution history. Append-only.
type Order struct {
	BaseModel
	ProductID   uint        `json:"product_id" gorm:"not null;index"`
	AffiliateID *uint       `json:"affiliate_id" gorm:"index"`
	Price       float64     `json:"price" gorm:"type:decimal(10,2);not null"`
	Currency    string      `json:"currency" gorm:"size:10;not null"`
	Status      OrderStatus `json:"status" gorm:"size:20;not null;default:'created'"`

	Product   Product    `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Affiliate *Affiliate `json:"affiliate,omitempty" gorm:"foreignKey:AffiliateID"`
}

// Click is an append-only attribution event.
type Click struct {
	BaseModel
	ProductID   uint   `json:"product_id" gorm:"not null;index"`
	AffiliateID *uint  `json:"affiliate_id" gorm:"index"`
	Referrer    string `json:"referrer" gorm:"size:1024"`

	Product   Product    `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Affiliate *Affiliate `json:"affiliate,omitempty" gorm:"foreignKey:AffiliateID"`
}
