package category

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Category 图书分类
// NameKey为名称的大小写折叠形式,数据库唯一索引建在NameKey上,
// 保证"Ficção"与"FICÇÃO"视为同一分类
type Category struct {
	ID          uint
	Name        string
	NameKey     string
	Description string
	CreatedAt   time.Time
}

// NewCategory 创建分类(工厂方法)
func NewCategory(name, description string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	return &Category{
		Name:        name,
		NameKey:     NameKey(name),
		Description: strings.TrimSpace(description),
		CreatedAt:   time.Now(),
	}, nil
}

// Rename 修改名称和描述
func (c *Category) Rename(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	c.Name = name
	c.NameKey = NameKey(name)
	c.Description = strings.TrimSpace(description)
	return nil
}

// NameKey 计算分类名的比较键(Unicode大小写折叠)
// cases.Caser有状态,每次调用新建
func NameKey(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
