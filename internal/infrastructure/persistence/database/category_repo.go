package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookstore-admin/internal/domain/category"
	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) category.Repository {
	return &categoryRepository{db: db}
}

// Create 名称冲突(并发导入时另一方先建好)返回ErrCategoryDuplicate
func (r *categoryRepository) Create(ctx context.Context, c *category.Category) error {
	model := &CategoryModel{
		Name:        c.Name,
		NameKey:     c.NameKey,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return category.ErrCategoryDuplicate
		}
		return apperrors.WithCode(apperrors.ErrCodeDatabaseError, err, "创建分类失败")
	}

	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	return nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*category.Category, error) {
	var model CategoryModel
	if err := dbFrom(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, r.translate(err, "查询分类失败")
	}
	return toCategoryEntity(&model), nil
}

func (r *categoryRepository) FindByNameKey(ctx context.Context, key string) (*category.Category, error) {
	var model CategoryModel
	if err := dbFrom(ctx, r.db).Where("name_key = ?", key).First(&model).Error; err != nil {
		return nil, r.translate(err, "查询分类失败")
	}
	return toCategoryEntity(&model), nil
}

func (r *categoryRepository) Update(ctx context.Context, c *category.Category) error {
	result := dbFrom(ctx, r.db).Model(&CategoryModel{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"name":        c.Name,
		"name_key":    c.NameKey,
		"description": c.Description,
	})
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return category.ErrCategoryDuplicate
		}
		return apperrors.WithCode(apperrors.ErrCodeDatabaseError, result.Error, "更新分类失败")
	}
	if result.RowsAffected == 0 {
		return category.ErrCategoryNotFound
	}
	return nil
}

// Delete 先把所属图书的category_id置空,再删除分类
func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	return dbFrom(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		// Unscoped:软删除的图书也解除关联
		if err := tx.Unscoped().Model(&BookModel{}).Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return apperrors.WithCode(apperrors.ErrCodeDatabaseError, err, "解除图书分类失败")
		}

		result := tx.Delete(&CategoryModel{}, id)
		if result.Error != nil {
			return apperrors.WithCode(apperrors.ErrCodeDatabaseError, result.Error, "删除分类失败")
		}
		if result.RowsAffected == 0 {
			return category.ErrCategoryNotFound
		}
		return nil
	})
}

func (r *categoryRepository) List(ctx context.Context) ([]*category.Category, error) {
	var models []CategoryModel
	if err := dbFrom(ctx, r.db).Order("name ASC").Find(&models).Error; err != nil {
		return nil, apperrors.WithCode(apperrors.ErrCodeDatabaseError, err, "查询分类列表失败")
	}

	out := make([]*category.Category, len(models))
	for i := range models {
		out[i] = toCategoryEntity(&models[i])
	}
	return out, nil
}

func (r *categoryRepository) translate(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return category.ErrCategoryNotFound
	}
	return apperrors.WithCode(apperrors.ErrCodeDatabaseError, err, msg)
}

func toCategoryEntity(m *CategoryModel) *category.Category {
	return &category.Category{
		ID:          m.ID,
		Name:        m.Name,
		NameKey:     m.NameKey,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}
