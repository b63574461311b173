package customer

import (
	"context"
)

// Service 客户领域服务
type Service interface {
	CreateCustomer(ctx context.Context, attrs Attributes) (*Customer, error)
	GetCustomer(ctx context.Context, id uint) (*Customer, error)
	UpdateCustomer(ctx context.Context, id uint, attrs Attributes) (*Customer, error)
	DeleteCustomer(ctx context.Context, id uint) error
	ListCustomers(ctx context.Context, keyword string, page, pageSize int) ([]*Customer, int64, error)
}

type service struct {
	repo Repository
}

// NewService 创建客户领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateCustomer(ctx context.Context, attrs Attributes) (*Customer, error) {
	c, err := NewCustomer(attrs)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetCustomer(ctx context.Context, id uint) (*Customer, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) UpdateCustomer(ctx context.Context, id uint, attrs Attributes) (*Customer, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Update(attrs); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) DeleteCustomer(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) ListCustomers(ctx context.Context, keyword string, page, pageSize int) ([]*Customer, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.repo.List(ctx, keyword, page, pageSize)
}
