package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "recipebox/internal/errors"
	"recipebox/internal/model"
	"recipebox/internal/repository"
)

// RecipeInput carries the full mutable field set of a recipe. It is used for
// create and full-replace operations: leaving TagIDs or IngredientIDs nil
// means the recipe ends up with no associations of that kind.
type RecipeInput struct {
	Title         string
	TimeMinutes   int
	Price         decimal.Decimal
	TagIDs        []uint
	IngredientIDs []uint
}

// RecipePatch carries an explicit partial update. Nil fields are left
// untouched, including the association sets.
type RecipePatch struct {
	Title         *string
	TimeMinutes   *int
	Price         *decimal.Decimal
	TagIDs        *[]uint
	IngredientIDs *[]uint
}

// ImageSaver persists uploaded image payloads. Satisfied by
// storage.ImageStore.
type ImageSaver interface {
	Save(entity, originalName string, r io.Reader) (string, error)
	Remove(relPath string)
}

const recipeImageEntity = "recipe"

// RecipeService handles owner-scoped recipe operations.
type RecipeService interface {
	List(ctx context.Context, ownerID uint, filter repository.RecipeFilter) ([]model.Recipe, error)
	Create(ctx context.Context, ownerID uint, input RecipeInput) (*model.Recipe, error)
	Get(ctx context.Context, ownerID, id uint) (*model.Recipe, error)
	Replace(ctx context.Context, ownerID, id uint, input RecipeInput) (*model.Recipe, error)
	Patch(ctx context.Context, ownerID, id uint, patch RecipePatch) (*model.Recipe, error)
	Delete(ctx context.Context, ownerID, id uint) error
	UploadImage(ctx context.Context, ownerID, id uint, filename string, file io.Reader) (*model.Recipe, error)
}

type recipeService struct {
	recipeRepo     repository.RecipeRepository
	tagRepo        repository.TagRepository
	ingredientRepo repository.IngredientRepository
	images         ImageSaver
}

// NewRecipeService creates a new recipe service.
func NewRecipeService(
	recipeRepo repository.RecipeRepository,
	tagRepo repository.TagRepository,
	ingredientRepo repository.IngredientRepository,
	images ImageSaver,
) RecipeService {
	return &recipeService{
		recipeRepo:     recipeRepo,
		tagRepo:        tagRepo,
		ingredientRepo: ingredientRepo,
		images:         images,
	}
}

// List returns the owner's recipes, optionally filtered by tag or ingredient
// IDs.
func (s *recipeService) List(ctx context.Context, ownerID uint, filter repository.RecipeFilter) ([]model.Recipe, error) {
	return s.recipeRepo.ListByOwner(ctx, ownerID, filter)
}

// Create persists a recipe owned by the caller. Tag and ingredient IDs are
// resolved within the caller's scope, so referencing another user's rows
// fails the same way as referencing nonexistent ones.
func (s *recipeService) Create(ctx context.Context, ownerID uint, input RecipeInput) (*model.Recipe, error) {
	if err := validateRecipeInput(input); err != nil {
		return nil, err
	}
	tags, ingredients, err := s.resolveAssociations(ctx, ownerID, input.TagIDs, input.IngredientIDs)
	if err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		Title:       input.Title,
		TimeMinutes: input.TimeMinutes,
		Price:       input.Price,
		UserID:      ownerID,
		Tags:        tags,
		Ingredients: ingredients,
	}
	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	return recipe, nil
}

// Get loads one of the owner's recipes with associations.
func (s *recipeService) Get(ctx context.Context, ownerID, id uint) (*model.Recipe, error) {
	recipe, err := s.recipeRepo.FindByOwnerAndID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("find recipe: %w", err)
	}
	return recipe, nil
}

// Replace applies a full update: every mutable field takes the input value
// and both association sets are replaced, clearing anything not re-specified.
func (s *recipeService) Replace(ctx context.Context, ownerID, id uint, input RecipeInput) (*model.Recipe, error) {
	if err := validateRecipeInput(input); err != nil {
		return nil, err
	}
	recipe, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	tags, ingredients, err := s.resolveAssociations(ctx, ownerID, input.TagIDs, input.IngredientIDs)
	if err != nil {
		return nil, err
	}

	recipe.Title = input.Title
	recipe.TimeMinutes = input.TimeMinutes
	recipe.Price = input.Price
	if err := s.recipeRepo.Update(ctx, recipe); err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	if err := s.recipeRepo.ReplaceTags(ctx, recipe, tags); err != nil {
		return nil, fmt.Errorf("replace tags: %w", err)
	}
	if err := s.recipeRepo.ReplaceIngredients(ctx, recipe, ingredients); err != nil {
		return nil, fmt.Errorf("replace ingredients: %w", err)
	}
	return recipe, nil
}

// Patch applies a partial update; omitted fields, including association
// sets, keep their current values.
func (s *recipeService) Patch(ctx context.Context, ownerID, id uint, patch RecipePatch) (*model.Recipe, error) {
	recipe, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, apperrors.ErrTitleRequired
		}
		recipe.Title = *patch.Title
	}
	if patch.TimeMinutes != nil {
		if *patch.TimeMinutes < 0 {
			return nil, apperrors.ErrInvalidTime
		}
		recipe.TimeMinutes = *patch.TimeMinutes
	}
	if patch.Price != nil {
		if patch.Price.IsNegative() {
			return nil, apperrors.ErrInvalidPrice
		}
		recipe.Price = *patch.Price
	}

	// resolve incoming IDs before any write so an unknown ID cannot leave a
	// half-applied patch behind
	var tags []model.Tag
	if patch.TagIDs != nil {
		if tags, err = s.resolveTags(ctx, ownerID, *patch.TagIDs); err != nil {
			return nil, err
		}
	}
	var ingredients []model.Ingredient
	if patch.IngredientIDs != nil {
		if ingredients, err = s.resolveIngredients(ctx, ownerID, *patch.IngredientIDs); err != nil {
			return nil, err
		}
	}

	if err := s.recipeRepo.Update(ctx, recipe); err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	if patch.TagIDs != nil {
		if err := s.recipeRepo.ReplaceTags(ctx, recipe, tags); err != nil {
			return nil, fmt.Errorf("replace tags: %w", err)
		}
	}
	if patch.IngredientIDs != nil {
		if err := s.recipeRepo.ReplaceIngredients(ctx, recipe, ingredients); err != nil {
			return nil, fmt.Errorf("replace ingredients: %w", err)
		}
	}
	return recipe, nil
}

// Delete removes one of the owner's recipes and its stored image file.
func (s *recipeService) Delete(ctx context.Context, ownerID, id uint) error {
	recipe, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.recipeRepo.DeleteByOwnerAndID(ctx, ownerID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("delete recipe: %w", err)
	}
	s.images.Remove(recipe.Image)
	return nil
}

// UploadImage validates and stores an image file for the recipe, replacing
// any previously stored file. The record is untouched when validation fails.
func (s *recipeService) UploadImage(ctx context.Context, ownerID, id uint, filename string, file io.Reader) (*model.Recipe, error) {
	recipe, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	path, err := s.images.Save(recipeImageEntity, filename, file)
	if err != nil {
		return nil, err
	}

	previous := recipe.Image
	recipe.Image = path
	if err := s.recipeRepo.Update(ctx, recipe); err != nil {
		s.images.Remove(path)
		return nil, fmt.Errorf("update recipe image: %w", err)
	}
	if previous != path {
		s.images.Remove(previous)
	}
	return recipe, nil
}

func validateRecipeInput(input RecipeInput) error {
	if input.Title == "" {
		return apperrors.ErrTitleRequired
	}
	if input.TimeMinutes < 0 {
		return apperrors.ErrInvalidTime
	}
	if input.Price.IsNegative() {
		return apperrors.ErrInvalidPrice
	}
	return nil
}

func (s *recipeService) resolveAssociations(ctx context.Context, ownerID uint, tagIDs, ingredientIDs []uint) ([]model.Tag, []model.Ingredient, error) {
	tags, err := s.resolveTags(ctx, ownerID, tagIDs)
	if err != nil {
		return nil, nil, err
	}
	ingredients, err := s.resolveIngredients(ctx, ownerID, ingredientIDs)
	if err != nil {
		return nil, nil, err
	}
	return tags, ingredients, nil
}

func (s *recipeService) resolveTags(ctx context.Context, ownerID uint, ids []uint) ([]model.Tag, error) {
	ids = dedupeIDs(ids)
	tags, err := s.tagRepo.FindByOwnerAndIDs(ctx, ownerID, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve tags: %w", err)
	}
	if len(tags) != len(ids) {
		return nil, apperrors.ErrUnknownTag
	}
	return tags, nil
}

func (s *recipeService) resolveIngredients(ctx context.Context, ownerID uint, ids []uint) ([]model.Ingredient, error) {
	ids = dedupeIDs(ids)
	ingredients, err := s.ingredientRepo.FindByOwnerAndIDs(ctx, ownerID, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve ingredients: %w", err)
	}
	if len(ingredients) != len(ids) {
		return nil, apperrors.ErrUnknownIngredient
	}
	return ingredients, nil
}

func dedupeIDs(ids []uint) []uint {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
