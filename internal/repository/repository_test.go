package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"recipebox/internal/model"
)

// newTestDB opens a private in-memory SQLite database with the full schema
// migrated. Each test gets its own database; cache=shared keeps it alive
// across the connections GORM pools.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Tag{}, &model.Ingredient{}, &model.Recipe{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedTag(t *testing.T, db *gorm.DB, ownerID uint, name string) *model.Tag {
	t.Helper()
	tag := &model.Tag{Name: name, UserID: ownerID}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

func seedIngredient(t *testing.T, db *gorm.DB, ownerID uint, name string) *model.Ingredient {
	t.Helper()
	ingredient := &model.Ingredient{Name: name, UserID: ownerID}
	require.NoError(t, db.Create(ingredient).Error)
	return ingredient
}

func seedRecipe(t *testing.T, db *gorm.DB, ownerID uint, title string, tags []model.Tag, ingredients []model.Ingredient) *model.Recipe {
	t.Helper()
	recipe := &model.Recipe{
		Title:       title,
		TimeMinutes: 10,
		Price:       decimal.NewFromFloat(5.50),
		UserID:      ownerID,
		Tags:        tags,
		Ingredients: ingredients,
	}
	require.NoError(t, db.Create(recipe).Error)
	return recipe
}

func tagNames(tags []model.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names
}

func ingredientNames(ingredients []model.Ingredient) []string {
	names := make([]string, 0, len(ingredients))
	for _, ingredient := range ingredients {
		names = append(names, ingredient.Name)
	}
	return names
}

func recipeTitles(recipes []model.Recipe) []string {
	titles := make([]string, 0, len(recipes))
	for _, recipe := range recipes {
		titles = append(titles, recipe.Title)
	}
	return titles
}

func TestTagRepository_ListByOwner(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")
	seedTag(t, db, owner.ID, "Dessert")
	seedTag(t, db, owner.ID, "Vegan")
	seedTag(t, db, other.ID, "Breakfast")

	repo := NewTagRepository(db)

	tags, err := repo.ListByOwner(context.Background(), owner.ID)

	assert.NoError(t, err)
	assert.Equal(t, []string{"Vegan", "Dessert"}, tagNames(tags))
}

func TestTagRepository_ListAssignedByOwner(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")

	assigned := seedTag(t, db, owner.ID, "Dinner")
	seedTag(t, db, owner.ID, "Unused")
	otherTag := seedTag(t, db, other.ID, "Dinner")

	// The same tag on two recipes must still come back once.
	seedRecipe(t, db, owner.ID, "Curry", []model.Tag{*assigned}, nil)
	seedRecipe(t, db, owner.ID, "Stew", []model.Tag{*assigned}, nil)
	seedRecipe(t, db, other.ID, "Pancakes", []model.Tag{*otherTag}, nil)

	repo := NewTagRepository(db)

	tags, err := repo.ListAssignedByOwner(context.Background(), owner.ID)

	assert.NoError(t, err)
	assert.Len(t, tags, 1)
	assert.Equal(t, assigned.ID, tags[0].ID)
}

func TestTagRepository_FindByOwnerAndIDs_ScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")
	mine := seedTag(t, db, owner.ID, "Dessert")
	theirs := seedTag(t, db, other.ID, "Dessert")

	repo := NewTagRepository(db)

	tags, err := repo.FindByOwnerAndIDs(context.Background(), owner.ID, []uint{mine.ID, theirs.ID})

	assert.NoError(t, err)
	assert.Len(t, tags, 1)
	assert.Equal(t, mine.ID, tags[0].ID)
}

func TestTagRepository_DeleteByOwnerAndID_OtherOwner(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")
	tag := seedTag(t, db, other.ID, "Dessert")

	repo := NewTagRepository(db)

	err := repo.DeleteByOwnerAndID(context.Background(), owner.ID, tag.ID)

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	// The row survives the foreign delete attempt.
	var count int64
	assert.NoError(t, db.Model(&model.Tag{}).Where("id = ?", tag.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestIngredientRepository_ListByOwner(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")
	seedIngredient(t, db, owner.ID, "Kale")
	seedIngredient(t, db, owner.ID, "Salt")
	seedIngredient(t, db, other.ID, "Sugar")

	repo := NewIngredientRepository(db)

	ingredients, err := repo.ListByOwner(context.Background(), owner.ID)

	assert.NoError(t, err)
	assert.Equal(t, []string{"Salt", "Kale"}, ingredientNames(ingredients))
}

func TestIngredientRepository_ListAssignedByOwner(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")

	assigned := seedIngredient(t, db, owner.ID, "Cheese")
	seedIngredient(t, db, owner.ID, "Unused")
	otherIngredient := seedIngredient(t, db, other.ID, "Cheese")

	seedRecipe(t, db, owner.ID, "Pizza", nil, []model.Ingredient{*assigned})
	seedRecipe(t, db, owner.ID, "Lasagna", nil, []model.Ingredient{*assigned})
	seedRecipe(t, db, other.ID, "Fondue", nil, []model.Ingredient{*otherIngredient})

	repo := NewIngredientRepository(db)

	ingredients, err := repo.ListAssignedByOwner(context.Background(), owner.ID)

	assert.NoError(t, err)
	assert.Len(t, ingredients, 1)
	assert.Equal(t, assigned.ID, ingredients[0].ID)
}

func TestRecipeRepository_ListByOwner(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")
	seedRecipe(t, db, owner.ID, "Curry", nil, nil)
	seedRecipe(t, db, owner.ID, "Stew", nil, nil)
	seedRecipe(t, db, other.ID, "Pancakes", nil, nil)

	repo := NewRecipeRepository(db)

	recipes, err := repo.ListByOwner(context.Background(), owner.ID, RecipeFilter{})

	assert.NoError(t, err)
	// Newest first, never another user's rows.
	assert.Equal(t, []string{"Stew", "Curry"}, recipeTitles(recipes))
}

func TestRecipeRepository_ListByOwner_Filtered(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")

	spicy := seedTag(t, db, owner.ID, "Spicy")
	vegan := seedTag(t, db, owner.ID, "Vegan")
	rice := seedIngredient(t, db, owner.ID, "Rice")
	tofu := seedIngredient(t, db, owner.ID, "Tofu")

	seedRecipe(t, db, owner.ID, "Curry", []model.Tag{*spicy, *vegan}, []model.Ingredient{*rice})
	seedRecipe(t, db, owner.ID, "Stir Fry", []model.Tag{*vegan}, []model.Ingredient{*tofu})
	seedRecipe(t, db, owner.ID, "Plain Rice", nil, []model.Ingredient{*rice})

	repo := NewRecipeRepository(db)
	ctx := context.Background()

	t.Run("by tag", func(t *testing.T) {
		recipes, err := repo.ListByOwner(ctx, owner.ID, RecipeFilter{TagIDs: []uint{spicy.ID}})
		assert.NoError(t, err)
		assert.Equal(t, []string{"Curry"}, recipeTitles(recipes))
	})

	t.Run("matching several tags lists the recipe once", func(t *testing.T) {
		recipes, err := repo.ListByOwner(ctx, owner.ID, RecipeFilter{TagIDs: []uint{spicy.ID, vegan.ID}})
		assert.NoError(t, err)
		assert.Equal(t, []string{"Stir Fry", "Curry"}, recipeTitles(recipes))
	})

	t.Run("by ingredient", func(t *testing.T) {
		recipes, err := repo.ListByOwner(ctx, owner.ID, RecipeFilter{IngredientIDs: []uint{rice.ID}})
		assert.NoError(t, err)
		assert.Equal(t, []string{"Plain Rice", "Curry"}, recipeTitles(recipes))
	})

	t.Run("by tag and ingredient", func(t *testing.T) {
		recipes, err := repo.ListByOwner(ctx, owner.ID, RecipeFilter{
			TagIDs:        []uint{vegan.ID},
			IngredientIDs: []uint{rice.ID},
		})
		assert.NoError(t, err)
		assert.Equal(t, []string{"Curry"}, recipeTitles(recipes))
	})
}

func TestRecipeRepository_FindByOwnerAndID_OtherOwner(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")
	recipe := seedRecipe(t, db, other.ID, "Pancakes", nil, nil)

	repo := NewRecipeRepository(db)

	found, err := repo.FindByOwnerAndID(context.Background(), owner.ID, recipe.ID)

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Nil(t, found)
}

func TestRecipeRepository_ReplaceTags(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	spicy := seedTag(t, db, owner.ID, "Spicy")
	vegan := seedTag(t, db, owner.ID, "Vegan")
	recipe := seedRecipe(t, db, owner.ID, "Curry", []model.Tag{*spicy}, nil)

	repo := NewRecipeRepository(db)
	ctx := context.Background()

	assert.NoError(t, repo.ReplaceTags(ctx, recipe, []model.Tag{*vegan}))

	reloaded, err := repo.FindByOwnerAndID(ctx, owner.ID, recipe.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{"Vegan"}, tagNames(reloaded.Tags))

	assert.NoError(t, repo.ReplaceTags(ctx, recipe, nil))

	reloaded, err = repo.FindByOwnerAndID(ctx, owner.ID, recipe.ID)
	assert.NoError(t, err)
	assert.Empty(t, reloaded.Tags)
}

func TestRecipeRepository_DeleteByOwnerAndID(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	tag := seedTag(t, db, owner.ID, "Spicy")
	recipe := seedRecipe(t, db, owner.ID, "Curry", []model.Tag{*tag}, nil)

	repo := NewRecipeRepository(db)
	ctx := context.Background()

	assert.NoError(t, repo.DeleteByOwnerAndID(ctx, owner.ID, recipe.ID))

	_, err := repo.FindByOwnerAndID(ctx, owner.ID, recipe.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Join rows go with the recipe; the tag itself stays.
	var joinCount int64
	assert.NoError(t, db.Table("recipe_tags").Where("recipe_id = ?", recipe.ID).Count(&joinCount).Error)
	assert.Zero(t, joinCount)
	var tagCount int64
	assert.NoError(t, db.Model(&model.Tag{}).Where("id = ?", tag.ID).Count(&tagCount).Error)
	assert.EqualValues(t, 1, tagCount)
}
