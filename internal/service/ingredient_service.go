package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "recipebox/internal/errors"
	"recipebox/internal/model"
	"recipebox/internal/repository"
)

// IngredientService handles owner-scoped ingredient operations.
type IngredientService interface {
	List(ctx context.Context, ownerID uint, assignedOnly bool) ([]model.Ingredient, error)
	Create(ctx context.Context, ownerID uint, name string) (*model.Ingredient, error)
	Get(ctx context.Context, ownerID, id uint) (*model.Ingredient, error)
	Rename(ctx context.Context, ownerID, id uint, name string) (*model.Ingredient, error)
	Delete(ctx context.Context, ownerID, id uint) error
}

type ingredientService struct {
	ingredientRepo repository.IngredientRepository
}

// NewIngredientService creates a new ingredient service.
func NewIngredientService(ingredientRepo repository.IngredientRepository) IngredientService {
	return &ingredientService{ingredientRepo: ingredientRepo}
}

func (s *ingredientService) List(ctx context.Context, ownerID uint, assignedOnly bool) ([]model.Ingredient, error) {
	if assignedOnly {
		return s.ingredientRepo.ListAssignedByOwner(ctx, ownerID)
	}
	return s.ingredientRepo.ListByOwner(ctx, ownerID)
}

func (s *ingredientService) Create(ctx context.Context, ownerID uint, name string) (*model.Ingredient, error) {
	if name == "" {
		return nil, apperrors.ErrNameRequired
	}
	ingredient := &model.Ingredient{Name: name, UserID: ownerID}
	if err := s.ingredientRepo.Create(ctx, ingredient); err != nil {
		return nil, fmt.Errorf("create ingredient: %w", err)
	}
	return ingredient, nil
}

func (s *ingredientService) Get(ctx context.Context, ownerID, id uint) (*model.Ingredient, error) {
	ingredient, err := s.ingredientRepo.FindByOwnerAndID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("find ingredient: %w", err)
	}
	return ingredient, nil
}

func (s *ingredientService) Rename(ctx context.Context, ownerID, id uint, name string) (*model.Ingredient, error) {
	if name == "" {
		return nil, apperrors.ErrNameRequired
	}
	ingredient, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	ingredient.Name = name
	if err := s.ingredientRepo.Update(ctx, ingredient); err != nil {
		return nil, fmt.Errorf("update ingredient: %w", err)
	}
	return ingredient, nil
}

func (s *ingredientService) Delete(ctx context.Context, ownerID, id uint) error {
	if err := s.ingredientRepo.DeleteByOwnerAndID(ctx, ownerID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("delete ingredient: %w", err)
	}
	return nil
}
