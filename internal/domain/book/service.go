package book

import (
	"context"
)

// Service 图书领域服务接口
// 封装图书的业务规则校验,不依赖具体的Repository实现
type Service interface {
	// CreateBook 新增图书
	CreateBook(ctx context.Context, attrs Attributes) (*Book, error)

	// GetBook 根据ID获取图书详情
	GetBook(ctx context.Context, id uint) (*Book, error)

	// UpdateBook 更新图书
	UpdateBook(ctx context.Context, id uint, attrs Attributes) (*Book, error)

	// DeleteBook 删除图书
	DeleteBook(ctx context.Context, id uint) error

	// ListBooks 分页查询图书列表
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateBook 新增图书
// 1. 校验字段(工厂方法)
// 2. 持久化
func (s *service) CreateBook(ctx context.Context, attrs Attributes) (*Book, error) {
	b, err := NewBook(attrs)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetBook(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateBook 更新图书
// 库存按表单值与读取值的差额原子调整,读取之后发生的销售不会被覆盖
func (s *service) UpdateBook(ctx context.Context, id uint, attrs Attributes) (*Book, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := b.Stock
	if err := b.Update(attrs); err != nil {
		return nil, err
	}
	if delta := b.Stock - before; delta != 0 {
		if err := s.repo.UpdateStock(ctx, id, delta); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// DeleteBook 删除图书
// 软删除,历史销售明细仍保留书名
func (s *service) DeleteBook(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}
	return s.repo.List(ctx, params)
}
