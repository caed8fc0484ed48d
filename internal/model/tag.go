package model

import "time"

// Tag is a user-defined label attached to recipes. Tags are flat and private
// to their owner; two users can hold tags with the same name.
type Tag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null;index"`
	UserID    uint      `json:"-" gorm:"index;not null"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
