package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/attachvault/pkg/context"
	"github.com/yeisme/attachvault/pkg/internal/storage"
)

// StorageMiddleware 将存储管理器注入请求上下文，服务层经 pkg/context 取用.
func StorageMiddleware(manager *storage.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.WithStorageManager(c.Request.Context(), manager)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
