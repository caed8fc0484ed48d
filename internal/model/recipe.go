package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe is the central entity of the service. Tags and Ingredients are
// attached through join tables (recipe_tags, recipe_ingredients); Image holds
// a path relative to the configured upload directory, empty when no image has
// been uploaded.
type Recipe struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Title       string          `json:"title" gorm:"size:255;not null"`
	TimeMinutes int             `json:"time_minutes" gorm:"not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	UserID      uint            `json:"-" gorm:"index;not null"`
	Image       string          `json:"image,omitempty" gorm:"size:512"`
	Tags        []Tag           `json:"tags" gorm:"many2many:recipe_tags"`
	Ingredients []Ingredient    `json:"ingredients" gorm:"many2many:recipe_ingredients"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
