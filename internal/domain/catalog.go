package domain

import "time"

// Category groups products on the storefront. Names are unique.
type Category struct {
	ID        int64     `gorm:"primaryKey" json:"id,string"`
	Name      string    `gorm:"uniqueIndex;size:200" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Product is a catalog item. Every product belongs to exactly one
// category; stock and price are never negative.
type Product struct {
	ID          int64     `gorm:"primaryKey" json:"id,string"`
	Name        string    `gorm:"index;size:200" json:"name"`
	Description string    `gorm:"size:2000" json:"description"`
	CategoryID  int64     `gorm:"index;not null" json:"category_id,string"`
	Category    *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Stock       int       `json:"stock"`
	Price       float64   `json:"price"`
	ImageUrl    string    `gorm:"size:1024" json:"image_url"` // URL to product image (optional)
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
