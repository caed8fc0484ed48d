package model

import "time"

// Ingredient is a user-defined recipe component, owner-scoped like Tag.
type Ingredient struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null;index"`
	UserID    uint      `json:"-" gorm:"index;not null"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
