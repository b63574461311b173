package customer

import (
	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
)

var (
	ErrCustomerNotFound = apperrors.New(apperrors.ErrCodeCustomerNotFound, "客户不存在")
	ErrNameRequired     = apperrors.New(apperrors.ErrCodeInvalidParams, "客户姓名不能为空")
	ErrInvalidEmail     = apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")
	ErrInvalidCPF       = apperrors.New(apperrors.ErrCodeInvalidParams, "CPF必须为11位数字")
)
