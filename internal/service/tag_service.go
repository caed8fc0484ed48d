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

// TagService handles owner-scoped tag operations.
type TagService interface {
	List(ctx context.Context, ownerID uint, assignedOnly bool) ([]model.Tag, error)
	Create(ctx context.Context, ownerID uint, name string) (*model.Tag, error)
	Get(ctx context.Context, ownerID, id uint) (*model.Tag, error)
	Rename(ctx context.Context, ownerID, id uint, name string) (*model.Tag, error)
	Delete(ctx context.Context, ownerID, id uint) error
}

type tagService struct {
	tagRepo repository.TagRepository
}

// NewTagService creates a new tag service.
func NewTagService(tagRepo repository.TagRepository) TagService {
	return &tagService{tagRepo: tagRepo}
}

// List returns the owner's tags; with assignedOnly, only tags attached to at
// least one of the owner's recipes.
func (s *tagService) List(ctx context.Context, ownerID uint, assignedOnly bool) ([]model.Tag, error) {
	if assignedOnly {
		return s.tagRepo.ListAssignedByOwner(ctx, ownerID)
	}
	return s.tagRepo.ListByOwner(ctx, ownerID)
}

// Create persists a tag owned by the caller.
func (s *tagService) Create(ctx context.Context, ownerID uint, name string) (*model.Tag, error) {
	if name == "" {
		return nil, apperrors.ErrNameRequired
	}
	tag := &model.Tag{Name: name, UserID: ownerID}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return tag, nil
}

// Get loads one of the owner's tags.
func (s *tagService) Get(ctx context.Context, ownerID, id uint) (*model.Tag, error) {
	tag, err := s.tagRepo.FindByOwnerAndID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("find tag: %w", err)
	}
	return tag, nil
}

// Rename changes the tag's name.
func (s *tagService) Rename(ctx context.Context, ownerID, id uint, name string) (*model.Tag, error) {
	if name == "" {
		return nil, apperrors.ErrNameRequired
	}
	tag, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	tag.Name = name
	if err := s.tagRepo.Update(ctx, tag); err != nil {
		return nil, fmt.Errorf("update tag: %w", err)
	}
	return tag, nil
}

// Delete removes one of the owner's tags.
func (s *tagService) Delete(ctx context.Context, ownerID, id uint) error {
	if err := s.tagRepo.DeleteByOwnerAndID(ctx, ownerID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}
