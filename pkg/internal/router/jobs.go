package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/attachvault/pkg/internal/handle"
)

// RegisterJobsRoutes 注册定时任务监控路由.
func RegisterJobsRoutes(g *gin.RouterGroup) {
	g.GET("/jobs", handle.ListJobs)
}
