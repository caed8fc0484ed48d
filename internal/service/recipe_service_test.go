package service

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "recipebox/internal/errors"
	"recipebox/internal/model"
	"recipebox/internal/repository"
)

func newRecipeFixture() (RecipeService, *MockRecipeRepository, *MockTagRepository, *MockIngredientRepository, *MockImageSaver) {
	recipeRepo := new(MockRecipeRepository)
	tagRepo := new(MockTagRepository)
	ingredientRepo := new(MockIngredientRepository)
	images := new(MockImageSaver)
	svc := NewRecipeService(recipeRepo, tagRepo, ingredientRepo, images)
	return svc, recipeRepo, tagRepo, ingredientRepo, images
}

func assertAll(t *testing.T, mocks ...interface{ AssertExpectations(mock.TestingT) bool }) {
	t.Helper()
	for _, m := range mocks {
		m.AssertExpectations(t)
	}
}

func TestRecipeService_Create(t *testing.T) {
	t.Run("attaches owner-scoped tags and ingredients", func(t *testing.T) {
		svc, recipeRepo, tagRepo, ingredientRepo, _ := newRecipeFixture()

		tags := []model.Tag{{ID: 1, Name: "Dinner", UserID: 1}, {ID: 2, Name: "Spicy", UserID: 1}}
		tagRepo.On("FindByOwnerAndIDs", mock.Anything, uint(1), []uint{1, 2}).Return(tags, nil)
		ingredientRepo.On("FindByOwnerAndIDs", mock.Anything, uint(1), []uint(nil)).Return(nil, nil)
		recipeRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Recipe")).Return(nil)

		recipe, err := svc.Create(context.Background(), 1, RecipeInput{
			Title:       "Thai prawn curry",
			TimeMinutes: 25,
			Price:       decimal.RequireFromString("9.50"),
			TagIDs:      []uint{1, 2},
		})

		assert.NoError(t, err)
		assert.Equal(t, uint(1), recipe.UserID)
		assert.Equal(t, tags, recipe.Tags)
		assert.Empty(t, recipe.Ingredients)
		assertAll(t, recipeRepo, tagRepo, ingredientRepo)
	})

	t.Run("foreign tag id reads as unknown", func(t *testing.T) {
		svc, recipeRepo, tagRepo, _, _ := newRecipeFixture()

		// id 9 belongs to another user, so the scoped lookup comes back short
		tagRepo.On("FindByOwnerAndIDs", mock.Anything, uint(1), []uint{9}).Return([]model.Tag{}, nil)

		recipe, err := svc.Create(context.Background(), 1, RecipeInput{
			Title:  "Borrowed recipe",
			TagIDs: []uint{9},
		})

		assert.ErrorIs(t, err, apperrors.ErrUnknownTag)
		assert.Nil(t, recipe)
		assertAll(t, recipeRepo, tagRepo)
	})

	t.Run("validation failures", func(t *testing.T) {
		tests := []struct {
			name          string
			input         RecipeInput
			expectedError error
		}{
			{"empty title", RecipeInput{TimeMinutes: 5}, apperrors.ErrTitleRequired},
			{"negative time", RecipeInput{Title: "x", TimeMinutes: -1}, apperrors.ErrInvalidTime},
			{"negative price", RecipeInput{Title: "x", Price: decimal.RequireFromString("-1")}, apperrors.ErrInvalidPrice},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc, recipeRepo, _, _, _ := newRecipeFixture()

				recipe, err := svc.Create(context.Background(), 1, tt.input)

				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, recipe)
				recipeRepo.AssertExpectations(t)
			})
		}
	})
}

func TestRecipeService_Get_NotOwned(t *testing.T) {
	svc, recipeRepo, _, _, _ := newRecipeFixture()
	recipeRepo.On("FindByOwnerAndID", mock.Anything, uint(2), uint(1)).Return(nil, gorm.ErrRecordNotFound)

	recipe, err := svc.Get(context.Background(), 2, 1)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, recipe)
	recipeRepo.AssertExpectations(t)
}

func TestRecipeService_Replace_ClearsOmittedAssociations(t *testing.T) {
	svc, recipeRepo, tagRepo, ingredientRepo, _ := newRecipeFixture()

	existing := &model.Recipe{
		ID: 4, Title: "Old title", UserID: 1,
		Tags: []model.Tag{{ID: 1, Name: "Dinner", UserID: 1}},
	}
	recipeRepo.On("FindByOwnerAndID", mock.Anything, uint(1), uint(4)).Return(existing, nil)
	tagRepo.On("FindByOwnerAndIDs", mock.Anything, uint(1), []uint(nil)).Return(nil, nil)
	ingredientRepo.On("FindByOwnerAndIDs", mock.Anything, uint(1), []uint(nil)).Return(nil, nil)
	recipeRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Recipe")).Return(nil)
	recipeRepo.On("ReplaceTags", mock.Anything, mock.AnythingOfType("*model.Recipe"), []model.Tag(nil)).Return(nil)
	recipeRepo.On("ReplaceIngredients", mock.Anything, mock.AnythingOfType("*model.Recipe"), []model.Ingredient(nil)).Return(nil)

	recipe, err := svc.Replace(context.Background(), 1, 4, RecipeInput{
		Title:       "New title",
		TimeMinutes: 30,
		Price:       decimal.RequireFromString("5.00"),
		// tags and ingredients omitted: full update clears both sets
	})

	assert.NoError(t, err)
	assert.Equal(t, "New title", recipe.Title)
	assert.Empty(t, recipe.Tags)
	assertAll(t, recipeRepo, tagRepo, ingredientRepo)
}

func TestRecipeService_Patch(t *testing.T) {
	t.Run("omitted associations stay untouched", func(t *testing.T) {
		svc, recipeRepo, _, _, _ := newRecipeFixture()

		existing := &model.Recipe{
			ID: 4, Title: "Old title", TimeMinutes: 10, UserID: 1,
			Tags: []model.Tag{{ID: 1, Name: "Dinner", UserID: 1}},
		}
		recipeRepo.On("FindByOwnerAndID", mock.Anything, uint(1), uint(4)).Return(existing, nil)
		// no ReplaceTags/ReplaceIngredients expectations: calling either fails the test
		recipeRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Recipe")).Return(nil)

		title := "New title"
		recipe, err := svc.Patch(context.Background(), 1, 4, RecipePatch{Title: &title})

		assert.NoError(t, err)
		assert.Equal(t, "New title", recipe.Title)
		assert.Equal(t, 10, recipe.TimeMinutes)
		assert.Len(t, recipe.Tags, 1)
		recipeRepo.AssertExpectations(t)
	})

	t.Run("explicit empty tag list clears tags", func(t *testing.T) {
		svc, recipeRepo, tagRepo, _, _ := newRecipeFixture()

		existing := &model.Recipe{
			ID: 4, Title: "Title", UserID: 1,
			Tags: []model.Tag{{ID: 1, Name: "Dinner", UserID: 1}},
		}
		recipeRepo.On("FindByOwnerAndID", mock.Anything, uint(1), uint(4)).Return(existing, nil)
		recipeRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Recipe")).Return(nil)
		tagRepo.On("FindByOwnerAndIDs", mock.Anything, uint(1), []uint{}).Return(nil, nil)
		recipeRepo.On("ReplaceTags", mock.Anything, mock.AnythingOfType("*model.Recipe"), []model.Tag(nil)).Return(nil)

		empty := []uint{}
		recipe, err := svc.Patch(context.Background(), 1, 4, RecipePatch{TagIDs: &empty})

		assert.NoError(t, err)
		assert.Empty(t, recipe.Tags)
		assertAll(t, recipeRepo, tagRepo)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		svc, recipeRepo, _, _, _ := newRecipeFixture()

		recipeRepo.On("FindByOwnerAndID", mock.Anything, uint(1), uint(4)).
			Return(&model.Recipe{ID: 4, Title: "Title", UserID: 1}, nil)

		title := ""
		recipe, err := svc.Patch(context.Background(), 1, 4, RecipePatch{Title: &title})

		assert.ErrorIs(t, err, apperrors.ErrTitleRequired)
		assert.Nil(t, recipe)
		recipeRepo.AssertExpectations(t)
	})
}

func TestRecipeService_Delete(t *testing.T) {
	svc, recipeRepo, _, _, images := newRecipeFixture()

	recipeRepo.On("FindByOwnerAndID", mock.Anything, uint(1), uint(4)).
		Return(&model.Recipe{ID: 4, UserID: 1, Image: "recipe/abc.png"}, nil)
	recipeRepo.On("DeleteByOwnerAndID", mock.Anything, uint(1), uint(4)).Return(nil)
	images.On("Remove", "recipe/abc.png").Return()

	err := svc.Delete(context.Background(), 1, 4)

	assert.NoError(t, err)
	assertAll(t, recipeRepo, images)
}

func TestRecipeService_UploadImage(t *testing.T) {
	t.Run("stores file and drops the previous one", func(t *testing.T) {
		svc, recipeRepo, _, _, images := newRecipeFixture()

		recipeRepo.On("FindByOwnerAndID", mock.Anything, uint(1), uint(4)).
			Return(&model.Recipe{ID: 4, UserID: 1, Image: "recipe/old.png"}, nil)
		images.On("Save", "recipe", "photo.png", mock.Anything).Return("recipe/new.png", nil)
		recipeRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Recipe")).Return(nil)
		images.On("Remove", "recipe/old.png").Return()

		recipe, err := svc.UploadImage(context.Background(), 1, 4, "photo.png", strings.NewReader("png bytes"))

		assert.NoError(t, err)
		assert.Equal(t, "recipe/new.png", recipe.Image)
		assertAll(t, recipeRepo, images)
	})

	t.Run("invalid payload leaves the record untouched", func(t *testing.T) {
		svc, recipeRepo, _, _, images := newRecipeFixture()

		recipeRepo.On("FindByOwnerAndID", mock.Anything, uint(1), uint(4)).
			Return(&model.Recipe{ID: 4, UserID: 1, Image: "recipe/old.png"}, nil)
		images.On("Save", "recipe", "notes.txt", mock.Anything).Return("", apperrors.ErrInvalidImage)
		// no Update expectation: the record must not be written

		recipe, err := svc.UploadImage(context.Background(), 1, 4, "notes.txt", strings.NewReader("plain text"))

		assert.ErrorIs(t, err, apperrors.ErrInvalidImage)
		assert.Nil(t, recipe)
		assertAll(t, recipeRepo, images)
	})
}

func TestRecipeService_List_PassesFilter(t *testing.T) {
	svc, recipeRepo, _, _, _ := newRecipeFixture()

	filter := repository.RecipeFilter{TagIDs: []uint{1}, IngredientIDs: []uint{2, 3}}
	recipeRepo.On("ListByOwner", mock.Anything, uint(1), filter).Return([]model.Recipe{}, nil)

	recipes, err := svc.List(context.Background(), 1, filter)

	assert.NoError(t, err)
	assert.Empty(t, recipes)
	recipeRepo.AssertExpectations(t)
}
