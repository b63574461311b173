package database

import (
	"time"

	"gorm.io/gorm"
)

// 以下为infrastructure层的数据模型,带GORM tag;
// 领域实体不依赖GORM,由各Repository负责转换

// UserModel 操作员
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码(bcrypt)"`
	Nickname  string         `gorm:"size:50;not null;comment:昵称"`
	Role      string         `gorm:"size:20;not null;default:operator;comment:角色"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

func (UserModel) TableName() string { return "users" }

// CategoryModel 图书分类
// NameKey为大小写折叠后的名称,唯一索引保证分类名不区分大小写唯一
type CategoryModel struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:100;not null;comment:分类名"`
	NameKey     string    `gorm:"uniqueIndex;size:100;not null;comment:折叠后的分类名"`
	Description string    `gorm:"type:text;comment:描述"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
}

func (CategoryModel) TableName() string { return "categories" }

// BookModel 图书
// ISBN只建普通索引:表格导入不去重,同一ISBN可以有多条
type BookModel struct {
	ID              uint           `gorm:"primaryKey"`
	Title           string         `gorm:"index:idx_books_title;size:255;not null;comment:书名"`
	Author          string         `gorm:"size:255;not null;comment:作者"`
	ISBN            string         `gorm:"index;size:20;comment:ISBN"`
	CategoryID      *uint          `gorm:"index;comment:分类ID"`
	Category        *CategoryModel `gorm:"foreignKey:CategoryID"`
	Price           int64          `gorm:"not null;default:0;comment:价格(分)"`
	Stock           int            `gorm:"not null;default:0;comment:库存"`
	Publisher       string         `gorm:"size:255;comment:出版社"`
	PublicationYear *int           `gorm:"comment:出版年份"`
	CoverURL        string         `gorm:"size:500;comment:封面URL"`
	Description     string         `gorm:"type:text;comment:描述"`
	CreatedAt       time.Time      `gorm:"comment:创建时间"`
	UpdatedAt       time.Time      `gorm:"comment:更新时间"`
	DeletedAt       gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

func (BookModel) TableName() string { return "books" }

// CustomerModel 客户
type CustomerModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"index;size:255;not null;comment:姓名"`
	Email     string    `gorm:"size:255;comment:邮箱"`
	Phone     string    `gorm:"size:30;comment:电话"`
	CPF       string    `gorm:"column:cpf;size:14;comment:CPF"`
	Address   string    `gorm:"type:text;comment:地址"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

func (CustomerModel) TableName() string { return "customers" }

// SaleModel 销售单
type SaleModel struct {
	ID            uint            `gorm:"primaryKey"`
	SaleNo        string          `gorm:"uniqueIndex;size:32;not null;comment:销售单号"`
	CustomerID    *uint           `gorm:"index;comment:客户ID"`
	Customer      *CustomerModel  `gorm:"foreignKey:CustomerID"`
	UserID        uint            `gorm:"index;not null;comment:操作员ID"`
	Total         int64           `gorm:"not null;comment:总金额(分)"`
	PaymentMethod string          `gorm:"size:20;not null;comment:支付方式"`
	Status        string          `gorm:"index;size:20;not null;default:completed;comment:状态"`
	Notes         string          `gorm:"type:text;comment:备注"`
	Items         []SaleItemModel `gorm:"foreignKey:SaleID"`
	CreatedAt     time.Time       `gorm:"index;comment:创建时间"`
}

func (SaleModel) TableName() string { return "sales" }

// SaleItemModel 销售明细,UnitPrice为成交时的单价快照
type SaleItemModel struct {
	ID        uint       `gorm:"primaryKey"`
	SaleID    uint       `gorm:"index;not null;comment:销售单ID"`
	BookID    uint       `gorm:"index;not null;comment:图书ID"`
	Book      *BookModel `gorm:"foreignKey:BookID"`
	Quantity  int        `gorm:"not null;comment:数量"`
	UnitPrice int64      `gorm:"not null;comment:单价(分)"`
	Subtotal  int64      `gorm:"not null;comment:小计(分)"`
	CreatedAt time.Time  `gorm:"comment:创建时间"`
}

func (SaleItemModel) TableName() string { return "sale_items" }
