package repository

import (
	"context"

	"gorm.io/gorm"

	"recipebox/internal/model"
)

// RecipeFilter narrows a recipe listing to recipes carrying any of the given
// tag or ingredient IDs. Zero-value means no filtering.
type RecipeFilter struct {
	TagIDs        []uint
	IngredientIDs []uint
}

// RecipeRepository defines recipe persistence operations, owner-scoped
// throughout. Association writes go through ReplaceTags/ReplaceIngredients so
// the service layer controls exactly when associations are cleared.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *model.Recipe) error
	Update(ctx context.Context, recipe *model.Recipe) error
	ListByOwner(ctx context.Context, ownerID uint, filter RecipeFilter) ([]model.Recipe, error)
	FindByOwnerAndID(ctx context.Context, ownerID, id uint) (*model.Recipe, error)
	ReplaceTags(ctx context.Context, recipe *model.Recipe, tags []model.Tag) error
	ReplaceIngredients(ctx context.Context, recipe *model.Recipe, ingredients []model.Ingredient) error
	DeleteByOwnerAndID(ctx context.Context, ownerID, id uint) error
}

type recipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository.
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// Create creates a new recipe together with any pre-populated associations.
func (r *recipeRepository) Create(ctx context.Context, recipe *model.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

// Update saves the recipe's scalar fields. Associations are not touched;
// use ReplaceTags/ReplaceIngredients for those.
func (r *recipeRepository) Update(ctx context.Context, recipe *model.Recipe) error {
	return r.db.WithContext(ctx).Omit("Tags", "Ingredients").Save(recipe).Error
}

// ListByOwner lists the owner's recipes newest-first, optionally filtered by
// tag or ingredient IDs. Associations are preloaded so handlers can
// serialize ID lists without extra queries.
func (r *recipeRepository) ListByOwner(ctx context.Context, ownerID uint, filter RecipeFilter) ([]model.Recipe, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Recipe{}).
		Distinct("recipes.*").
		Where("recipes.user_id = ?", ownerID)

	if len(filter.TagIDs) > 0 {
		q = q.Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Where("recipe_tags.tag_id IN ?", filter.TagIDs)
	}
	if len(filter.IngredientIDs) > 0 {
		q = q.Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = recipes.id").
			Where("recipe_ingredients.ingredient_id IN ?", filter.IngredientIDs)
	}

	var recipes []model.Recipe
	if err := q.Preload("Tags").Preload("Ingredients").
		Order("recipes.id DESC").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// FindByOwnerAndID finds one of the owner's recipes with tags and
// ingredients preloaded.
func (r *recipeRepository) FindByOwnerAndID(ctx context.Context, ownerID, id uint) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Tags").Preload("Ingredients").
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// ReplaceTags replaces the recipe's tag set; an empty slice clears it.
func (r *recipeRepository) ReplaceTags(ctx context.Context, recipe *model.Recipe, tags []model.Tag) error {
	if err := r.db.WithContext(ctx).Model(recipe).Association("Tags").Replace(tags); err != nil {
		return err
	}
	recipe.Tags = tags
	return nil
}

// ReplaceIngredients replaces the recipe's ingredient set; an empty slice
// clears it.
func (r *recipeRepository) ReplaceIngredients(ctx context.Context, recipe *model.Recipe, ingredients []model.Ingredient) error {
	if err := r.db.WithContext(ctx).Model(recipe).Association("Ingredients").Replace(ingredients); err != nil {
		return err
	}
	recipe.Ingredients = ingredients
	return nil
}

// DeleteByOwnerAndID deletes one of the owner's recipes and its join rows.
func (r *recipeRepository) DeleteByOwnerAndID(ctx context.Context, ownerID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe model.Recipe
		if err := tx.Where("id = ? AND user_id = ?", id, ownerID).First(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Ingredients").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}
