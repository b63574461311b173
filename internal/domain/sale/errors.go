package sale

import (
	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
)

// 销售领域错误定义
var (
	// ErrSaleNotFound 销售单不存在
	ErrSaleNotFound = apperrors.New(apperrors.ErrCodeSaleNotFound, "销售单不存在")

	// ErrInvalidStatusTransition 非法的状态转换
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeInvalidSaleStatus, "销售单状态不允许此操作")

	// ErrEmptyCart 购物车为空
	ErrEmptyCart = apperrors.New(apperrors.ErrCodeInvalidParams, "销售明细不能为空")

	// ErrInvalidQuantity 购买数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "购买数量必须大于0")

	// ErrInvalidPaymentMethod 不支持的支付方式
	ErrInvalidPaymentMethod = apperrors.New(apperrors.ErrCodeInvalidParams, "支付方式必须为cash、credit_card、debit_card或pix")
)
