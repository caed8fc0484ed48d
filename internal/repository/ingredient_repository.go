package repository

import (
	"context"

	"gorm.io/gorm"

	"recipebox/internal/model"
)

// IngredientRepository defines ingredient persistence operations, scoped to
// an explicit owner like TagRepository.
type IngredientRepository interface {
	Create(ctx context.Context, ingredient *model.Ingredient) error
	Update(ctx context.Context, ingredient *model.Ingredient) error
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Ingredient, error)
	ListAssignedByOwner(ctx context.Context, ownerID uint) ([]model.Ingredient, error)
	FindByOwnerAndID(ctx context.Context, ownerID, id uint) (*model.Ingredient, error)
	FindByOwnerAndIDs(ctx context.Context, ownerID uint, ids []uint) ([]model.Ingredient, error)
	DeleteByOwnerAndID(ctx context.Context, ownerID, id uint) error
}

type ingredientRepository struct {
	db *gorm.DB
}

// NewIngredientRepository creates a new ingredient repository.
func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) Create(ctx context.Context, ingredient *model.Ingredient) error {
	return r.db.WithContext(ctx).Create(ingredient).Error
}

func (r *ingredientRepository) Update(ctx context.Context, ingredient *model.Ingredient) error {
	return r.db.WithContext(ctx).Save(ingredient).Error
}

func (r *ingredientRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.Ingredient, error) {
	var ingredients []model.Ingredient
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("name DESC").
		Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) ListAssignedByOwner(ctx context.Context, ownerID uint) ([]model.Ingredient, error) {
	var ingredients []model.Ingredient
	if err := r.db.WithContext(ctx).
		Model(&model.Ingredient{}).
		Distinct("ingredients.*").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.ingredient_id = ingredients.id").
		Joins("JOIN recipes ON recipes.id = recipe_ingredients.recipe_id").
		Where("ingredients.user_id = ? AND recipes.user_id = ?", ownerID, ownerID).
		Order("ingredients.name DESC").
		Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) FindByOwnerAndID(ctx context.Context, ownerID, id uint) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepository) FindByOwnerAndIDs(ctx context.Context, ownerID uint, ids []uint) ([]model.Ingredient, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var ingredients []model.Ingredient
	if err := r.db.WithContext(ctx).
		Where("id IN ? AND user_id = ?", ids, ownerID).
		Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) DeleteByOwnerAndID(ctx context.Context, ownerID, id uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&model.Ingredient{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
