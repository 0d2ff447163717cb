// internal/models/product.go
package models

type Product struct {
	BaseModel
	Name        string  `json:"name" gorm:"size:50;not null;index"`
	Slug        string  `json:"slug" gorm:"size:255;not null;uniqueIndex"`
	Description string  `json:"description" gorm:"type:text"`
	Price       int64   `json:"price" gorm:"not null;default:0"`
	ImageURL    string  `json:"image_url" gorm:"size:512"`
	Stock       int     `json:"stock" gorm:"not null;default:0"`
	Rating      float64 `json:"rating" gorm:"not null;default:0"`
	ReviewCount int64   `json:"review_count" gorm:"not null;default:0"`
	Status      Status  `json:"status" gorm:"type:varchar(16);not null;default:'active';index"`
	CategoryID  uint64  `json:"category_id" gorm:"not null;index"`
	OwnerID     uint64  `json:"owner_id" gorm:"not null;index"`

	Category *Category `json:"-" gorm:"foreignKey:CategoryID"`
}

func (p *Product) IsActive() bool {
	return p.Status.IsActive()
}
