// internal/models/review.go
package models

import "time"

// Review has no UpdatedAt: reviews are created once and only ever
// soft-deleted.
type Review struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Comment   *string   `json:"comment" gorm:"type:text"`
	Grade     int       `json:"grade" gorm:"not null"`
	Status    Status    `json:"status" gorm:"type:varchar(16);not null;default:'active';index"`
	ProductID uint64    `json:"product_id" gorm:"not null;index"`
	UserID    uint64    `json:"user_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (r *Review) IsActive() bool {
	return r.Status.IsActive()
}
