// Package customer 客户管理用例
package customer

import (
	"context"

	"github.com/xiebiao/bookstore-admin/internal/domain/customer"
)

// CustomerRequest 新增/修改客户请求
type CustomerRequest struct {
	Name    string
	Email   string
	Phone   string
	CPF     string
	Address string
}

// CustomerDTO 客户响应DTO
type CustomerDTO struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	CPF       string `json:"cpf,omitempty"`
	Address   string `json:"address,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ListCustomersResponse 分页结果
type ListCustomersResponse struct {
	List     []CustomerDTO `json:"list"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

func toDTO(c *customer.Customer) CustomerDTO {
	return CustomerDTO{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CPF:       c.CPF,
		Address:   c.Address,
		CreatedAt: c.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func (r CustomerRequest) attributes() customer.Attributes {
	return customer.Attributes{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		CPF:     r.CPF,
		Address: r.Address,
	}
}

// CustomerUseCase 客户增删改查
type CustomerUseCase struct {
	service customer.Service
}

// NewCustomerUseCase 创建用例
func NewCustomerUseCase(service customer.Service) *CustomerUseCase {
	return &CustomerUseCase{service: service}
}

// Create 新增客户
func (uc *CustomerUseCase) Create(ctx context.Context, req CustomerRequest) (*CustomerDTO, error) {
	c, err := uc.service.CreateCustomer(ctx, req.attributes())
	if err != nil {
		return nil, err
	}
	dto := toDTO(c)
	return &dto, nil
}

// Update 修改客户
func (uc *CustomerUseCase) Update(ctx context.Context, id uint, req CustomerRequest) (*CustomerDTO, error) {
	c, err := uc.service.UpdateCustomer(ctx, id, req.attributes())
	if err != nil {
		return nil, err
	}
	dto := toDTO(c)
	return &dto, nil
}

// Delete 删除客户,历史销售单保留为散客
func (uc *CustomerUseCase) Delete(ctx context.Context, id uint) error {
	return uc.service.DeleteCustomer(ctx, id)
}

// Get 客户详情
func (uc *CustomerUseCase) Get(ctx context.Context, id uint) (*CustomerDTO, error) {
	c, err := uc.service.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(c)
	return &dto, nil
}

// List 分页查询
func (uc *CustomerUseCase) List(ctx context.Context, keyword string, page, pageSize int) (*ListCustomersResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	customers, total, err := uc.service.ListCustomers(ctx, keyword, page, pageSize)
	if err != nil {
		return nil, err
	}

	list := make([]CustomerDTO, len(customers))
	for i, c := range customers {
		list[i] = toDTO(c)
	}
	return &ListCustomersResponse{List: list, Total: total, Page: page, PageSize: pageSize}, nil
}
