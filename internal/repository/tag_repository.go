package repository

import (
	"context"

	"gorm.io/gorm"

	"recipebox/internal/model"
)

// TagRepository defines tag persistence operations. Every read and write is
// scoped to an explicit owner; there is no unscoped accessor.
type TagRepository interface {
	Create(ctx context.Context, tag *model.Tag) error
	Update(ctx context.Context, tag *model.Tag) error
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Tag, error)
	ListAssignedByOwner(ctx context.Context, ownerID uint) ([]model.Tag, error)
	FindByOwnerAndID(ctx context.Context, ownerID, id uint) (*model.Tag, error)
	FindByOwnerAndIDs(ctx context.Context, ownerID uint, ids []uint) ([]model.Tag, error)
	DeleteByOwnerAndID(ctx context.Context, ownerID, id uint) error
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

// Create creates a new tag.
func (r *tagRepository) Create(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

// Update saves all fields of an existing tag.
func (r *tagRepository) Update(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Save(tag).Error
}

// ListByOwner lists the owner's tags, most recent names first.
func (r *tagRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.Tag, error) {
	var tags []model.Tag
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("name DESC").
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// ListAssignedByOwner lists the distinct tags attached to at least one of the
// owner's recipes.
func (r *tagRepository) ListAssignedByOwner(ctx context.Context, ownerID uint) ([]model.Tag, error) {
	var tags []model.Tag
	if err := r.db.WithContext(ctx).
		Model(&model.Tag{}).
		Distinct("tags.*").
		Joins("JOIN recipe_tags ON recipe_tags.tag_id = tags.id").
		Joins("JOIN recipes ON recipes.id = recipe_tags.recipe_id").
		Where("tags.user_id = ? AND recipes.user_id = ?", ownerID, ownerID).
		Order("tags.name DESC").
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// FindByOwnerAndID finds one of the owner's tags by primary key.
func (r *tagRepository) FindByOwnerAndID(ctx context.Context, ownerID, id uint) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindByOwnerAndIDs resolves a set of tag IDs within the owner's scope.
// IDs owned by other users are simply absent from the result.
func (r *tagRepository) FindByOwnerAndIDs(ctx context.Context, ownerID uint, ids []uint) ([]model.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []model.Tag
	if err := r.db.WithContext(ctx).
		Where("id IN ? AND user_id = ?", ids, ownerID).
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// DeleteByOwnerAndID deletes one of the owner's tags. Deleting a row that
// does not exist in the owner's scope returns gorm.ErrRecordNotFound.
func (r *tagRepository) DeleteByOwnerAndID(ctx context.Context, ownerID, id uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&model.Tag{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
