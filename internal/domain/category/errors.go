package category

import (
	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
)

// 分类领域错误定义
var (
	// ErrCategoryNotFound 分类不存在
	ErrCategoryNotFound = apperrors.New(apperrors.ErrCodeCategoryNotFound, "分类不存在")

	// ErrCategoryDuplicate 分类名已存在(不区分大小写)
	ErrCategoryDuplicate = apperrors.New(apperrors.ErrCodeCategoryDuplicate, "分类名称已存在")

	// ErrNameRequired 分类名为空
	ErrNameRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "分类名称不能为空")
)
