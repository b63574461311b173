package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/bookstore-admin/internal/domain/sale"
	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
)

// saleRepository 销售单仓储实现
// 头与明细分开写入,由应用层的saga编排并在失败时补偿
type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository 创建销售单仓储
func NewSaleRepository(db *gorm.DB) sale.Repository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, s *sale.Sale) error {
	model := &SaleModel{
		SaleNo:        s.SaleNo,
		CustomerID:    s.CustomerID,
		UserID:        s.UserID,
		Total:         s.Total,
		PaymentMethod: string(s.PaymentMethod),
		Status:        string(s.Status),
		Notes:         s.Notes,
		CreatedAt:     s.CreatedAt,
	}
	if err := dbFrom(ctx, r.db).Omit("Items").Create(model).Error; err != nil {
		return apperrors.WithCode(apperrors.ErrCodeDatabaseError, err, "创建销售单失败")
	}

	s.ID = model.ID
	s.CreatedAt = model.CreatedAt
	return nil
}

func (r *saleRepository) CreateItems(ctx context.Context, saleID uint, items []sale.Item) error {
	if len(items) == 0 {
		return nil
	}

	models := make([]SaleItemModel, len(items))
	for i, it := range items {
		models[i] = SaleItemModel{
			SaleID:    saleID,
			BookID:    it.BookID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
			CreatedAt: it.CreatedAt,
		}
	}
	if err := dbFrom(ctx, r.db).Create(&models).Error; err != nil {
		return apperrors.WithCode(apperrors.ErrCodeDatabaseError, err, "创建销售明细失败")
	}

	for i := range items {
		items[i].ID = models[i].ID
		items[i].SaleID = saleID
	}
	return nil
}

func (r *saleRepository) Delete(ctx context.Context, id uint) error {
	if err := dbFrom(ctx, r.db).Delete(&SaleModel{}, id).Error; err != nil {
		return apperrors.WithCode(apperrors.ErrCodeDatabaseError, err, "删除销售单失败")
	}
	return nil
}

func (r *saleRepository) DeleteItems(ctx context.Context, saleID uint) error {
	if err := dbFrom(ctx, r.db).Where("sale_id = ?", saleID).Delete(&SaleItemModel{}).Error; err != nil {
		return apperrors.WithCode(apperrors.ErrCodeDatabaseError, err, "删除销售明细失败")
	}
	return nil
}

// FindByID 预加载客户与明细;明细关联的图书可能已软删除,使用Unscoped保留书名
func (r *saleRepository) FindByID(ctx context.Context, id uint) (*sale.Sale, error) {
	var model SaleModel
	err := dbFrom(ctx, r.db).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Book", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sale.ErrSaleNotFound
		}
		return nil, apperrors.WithCode(apperrors.ErrCodeDatabaseError, err, "查询销售单失败")
	}
	return toSaleEntity(&model), nil
}

func (r *saleRepository) UpdateStatus(ctx context.Context, id uint, status sale.Status) error {
	result := dbFrom(ctx, r.db).Model(&SaleModel{}).Where("id = ?", id).Update("status", string(status))
	if result.Error != nil {
		return apperrors.WithCode(apperrors.ErrCodeDatabaseError, result.Error, "更新销售单状态失败")
	}
	if result.RowsAffected == 0 {
		return sale.ErrSaleNotFound
	}
	return nil
}

// List 按创建时间倒序分页,不加载明细
func (r *saleRepository) List(ctx context.Context, page, pageSize int) ([]*sale.Sale, int64, error) {
	var (
		models []SaleModel
		total  int64
	)

	query := dbFrom(ctx, r.db).Model(&SaleModel{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WithCode(apperrors.ErrCodeDatabaseError, err, "查询销售单总数失败")
	}

	err := query.Preload("Customer").
		Order("created_at DESC").Order("id DESC").
		Limit(pageSize).
		Offset(pageOffset(page, pageSize)).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.WithCode(apperrors.ErrCodeDatabaseError, err, "查询销售单列表失败")
	}
	return toSaleEntities(models), total, nil
}

func (r *saleRepository) Recent(ctx context.Context, n int) ([]*sale.Sale, error) {
	var models []SaleModel
	err := dbFrom(ctx, r.db).Preload("Customer").
		Order("created_at DESC").Order("id DESC").
		Limit(n).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.WithCode(apperrors.ErrCodeDatabaseError, err, "查询最近销售单失败")
	}
	return toSaleEntities(models), nil
}

// Summary 只统计已完成的销售单
func (r *saleRepository) Summary(ctx context.Context) (int64, int64, error) {
	var row struct {
		Count   int64
		Revenue int64
	}
	err := dbFrom(ctx, r.db).Model(&SaleModel{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total), 0) AS revenue").
		Where("status = ?", string(sale.StatusCompleted)).
		Scan(&row).Error
	if err != nil {
		return 0, 0, apperrors.WithCode(apperrors.ErrCodeDatabaseError, err, "统计销售数据失败")
	}
	return row.Count, row.Revenue, nil
}

func (r *saleRepository) ListCompletedSince(ctx context.Context, since time.Time) ([]*sale.Sale, error) {
	var models []SaleModel
	err := dbFrom(ctx, r.db).
		Preload("Items").
		Preload("Items.Book", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("status = ? AND created_at >= ?", string(sale.StatusCompleted), since).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.WithCode(apperrors.ErrCodeDatabaseError, err, "查询报表数据失败")
	}
	return toSaleEntities(models), nil
}

func toSaleEntities(models []SaleModel) []*sale.Sale {
	out := make([]*sale.Sale, len(models))
	for i := range models {
		out[i] = toSaleEntity(&models[i])
	}
	return out
}

func toSaleEntity(m *SaleModel) *sale.Sale {
	s := &sale.Sale{
		ID:            m.ID,
		SaleNo:        m.SaleNo,
		CustomerID:    m.CustomerID,
		UserID:        m.UserID,
		Total:         m.Total,
		PaymentMethod: sale.PaymentMethod(m.PaymentMethod),
		Status:        sale.Status(m.Status),
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
		Items:         make([]sale.Item, len(m.Items)),
	}
	if m.Customer != nil {
		s.CustomerName = m.Customer.Name
	}

	for i, it := range m.Items {
		item := sale.Item{
			ID:        it.ID,
			SaleID:    it.SaleID,
			BookID:    it.BookID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
			CreatedAt: it.CreatedAt,
		}
		if it.Book != nil {
			item.BookTitle = it.Book.Title
		}
		s.Items[i] = item
	}
	return s
}
