// internal/models/category.go
package models

type Category struct {
	BaseModel
	Name     string  `json:"name" gorm:"size:50;not null"`
	Slug     string  `json:"slug" gorm:"size:255;not null;uniqueIndex"`
	ParentID *uint64 `json:"parent_id" gorm:"index"`
	Status   Status  `json:"status" gorm:"type:varchar(16);not null;default:'active';index"`
}

func (c *Category) IsActive() bool {
	return c.Status.IsActive()
}
