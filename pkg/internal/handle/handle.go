// Package handle 提供请求处理器的实现，负责把领域错误映射为 HTTP 状态码.
package handle

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/attachvault/pkg/internal/blob"
	"github.com/yeisme/attachvault/pkg/internal/service"
)

// ownerParam 解析路径中的 owner 参数（归属实体的整数标识）.
func ownerParam(c *gin.Context) (int64, bool) {
	owner, err := strconv.ParseInt(c.Param("owner"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner must be an integer"})
		return 0, false
	}

	return owner, true
}

// writeError 领域错误到状态码的唯一映射点.
// 校验失败 400、单值冲突 409、逻辑缺失 404，其余一律视为后端不可用 503.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCategory), errors.Is(err, blob.ErrMalformedURL):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	}
}
