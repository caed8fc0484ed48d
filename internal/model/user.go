package model

import "time"

// User represents an account holder. Every Tag, Ingredient and Recipe row
// carries a UserID foreign key back to its owner.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Name         string    `json:"name" gorm:"size:255"`
	IsStaff      bool      `json:"-" gorm:"default:false"`
	IsSuperuser  bool      `json:"-" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
