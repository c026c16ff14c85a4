package service

import (
	"github.com/yeisme/attachvault/pkg/internal/category"
	"github.com/yeisme/attachvault/pkg/internal/dal"
)

// 领域错误，由 handle 层映射为传输层状态码.
// 基础设施故障以包装错误原样上抛，不在此归类.
var (
	// ErrInvalidCategory 类别不在白名单内.无任何副作用即返回.
	ErrInvalidCategory = category.ErrInvalidCategory
	// ErrConflict 单值类别下实体已有附件.
	ErrConflict = dal.ErrConflict
	// ErrNotFound 请求的附件不存在.逻辑缺失，与连接故障严格区分.
	ErrNotFound = dal.ErrNotFound
)
