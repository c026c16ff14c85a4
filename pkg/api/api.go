// Package api 定义 HTTP 服务的接口注册入口.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/attachvault/pkg/internal/router"
)

// RegisterRoutes 注册全部 API 路由到传入的 gin 引擎.
func RegisterRoutes(e *gin.Engine) *gin.Engine {
	router.RegisterAPIRoutes(e)

	return e
}
