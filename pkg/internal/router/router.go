// Package router 管理路由配置，将路径绑定到 pkg/internal/handle 提供的处理器.
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes 注册 /api/v1 下的全部路由.
func RegisterAPIRoutes(e *gin.Engine) {
	v1 := e.Group("/api/v1")
	{
		RegisterFilesRoutes(v1)
		RegisterHealthCheckRoute(v1)
		RegisterJobsRoutes(v1)
	}
}
