package customer

import (
	"regexp"
	"strings"
	"time"
)

// Customer 客户
// 只有姓名必填;CPF为巴西个人税号,只保存数字
type Customer struct {
	ID        uint
	Name      string
	Email     string
	Phone     string
	CPF       string
	Address   string
	CreatedAt time.Time
}

// Attributes 可编辑字段
type Attributes struct {
	Name    string
	Email   string
	Phone   string
	CPF     string
	Address string
}

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	nonDigit     = regexp.MustCompile(`\D`)
)

// NewCustomer 创建客户(工厂方法)
func NewCustomer(attrs Attributes) (*Customer, error) {
	c := &Customer{CreatedAt: time.Now()}
	if err := c.Update(attrs); err != nil {
		return nil, err
	}
	return c, nil
}

// Update 校验并更新字段
// 1. 姓名必填
// 2. 邮箱(若有)格式合法
// 3. CPF(若有)去除标点后必须为11位
func (c *Customer) Update(attrs Attributes) error {
	name := strings.TrimSpace(attrs.Name)
	if name == "" {
		return ErrNameRequired
	}

	email := strings.TrimSpace(attrs.Email)
	if email != "" && !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}

	cpf := nonDigit.ReplaceAllString(attrs.CPF, "")
	if cpf != "" && len(cpf) != 11 {
		return ErrInvalidCPF
	}

	c.Name = name
	c.Email = email
	c.Phone = strings.TrimSpace(attrs.Phone)
	c.CPF = cpf
	c.Address = strings.TrimSpace(attrs.Address)
	return nil
}
