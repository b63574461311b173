package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookstore-admin/internal/domain/customer"
	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository 创建客户仓储
func NewCustomerRepository(db *gorm.DB) customer.Repository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, c *customer.Customer) error {
	model := toCustomerModel(c)
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.WithCode(apperrors.ErrCodeDatabaseError, err, "创建客户失败")
	}
	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	return nil
}

func (r *customerRepository) FindByID(ctx context.Context, id uint) (*customer.Customer, error) {
	var model CustomerModel
	if err := dbFrom(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customer.ErrCustomerNotFound
		}
		return nil, apperrors.WithCode(apperrors.ErrCodeDatabaseError, err, "查询客户失败")
	}
	return toCustomerEntity(&model), nil
}

func (r *customerRepository) Update(ctx context.Context, c *customer.Customer) error {
	result := dbFrom(ctx, r.db).Model(&CustomerModel{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"name":    c.Name,
		"email":   c.Email,
		"phone":   c.Phone,
		"cpf":     c.CPF,
		"address": c.Address,
	})
	if result.Error != nil {
		return apperrors.WithCode(apperrors.ErrCodeDatabaseError, result.Error, "更新客户失败")
	}
	if result.RowsAffected == 0 {
		return customer.ErrCustomerNotFound
	}
	return nil
}

// Delete 历史销售单保留,customer_id置空
func (r *customerRepository) Delete(ctx context.Context, id uint) error {
	return dbFrom(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&SaleModel{}).Where("customer_id = ?", id).
			Update("customer_id", nil).Error; err != nil {
			return apperrors.WithCode(apperrors.ErrCodeDatabaseError, err, "解除销售单客户失败")
		}

		result := tx.Delete(&CustomerModel{}, id)
		if result.Error != nil {
			return apperrors.WithCode(apperrors.ErrCodeDatabaseError, result.Error, "删除客户失败")
		}
		if result.RowsAffected == 0 {
			return customer.ErrCustomerNotFound
		}
		return nil
	})
}

func (r *customerRepository) List(ctx context.Context, keyword string, page, pageSize int) ([]*customer.Customer, int64, error) {
	var (
		models []CustomerModel
		total  int64
	)

	query := dbFrom(ctx, r.db).Model(&CustomerModel{})
	if keyword != "" {
		kw := likePattern(keyword)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ? OR cpf LIKE ?", kw, kw, kw, kw)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WithCode(apperrors.ErrCodeDatabaseError, err, "查询客户总数失败")
	}

	err := query.Order("name ASC").Order("id ASC").
		Limit(pageSize).
		Offset(pageOffset(page, pageSize)).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.WithCode(apperrors.ErrCodeDatabaseError, err, "查询客户列表失败")
	}

	out := make([]*customer.Customer, len(models))
	for i := range models {
		out[i] = toCustomerEntity(&models[i])
	}
	return out, total, nil
}

func (r *customerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := dbFrom(ctx, r.db).Model(&CustomerModel{}).Count(&n).Error; err != nil {
		return 0, apperrors.WithCode(apperrors.ErrCodeDatabaseError, err, "统计客户数量失败")
	}
	return n, nil
}

func toCustomerModel(c *customer.Customer) *CustomerModel {
	return &CustomerModel{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CPF:       c.CPF,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
	}
}

func toCustomerEntity(m *CustomerModel) *customer.Customer {
	return &customer.Customer{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		CPF:       m.CPF,
		Address:   m.Address,
		CreatedAt: m.CreatedAt,
	}
}
