package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/attachvault/pkg/internal/handle"
)

// RegisterFilesRoutes 注册附件操作相关路由.
//
//	POST   /files/:category/:owner  上传
//	GET    /files/:category/:owner  解析访问链接
//	PUT    /files/:category         原地覆盖（表单字段 url 定位附件）
//	DELETE /files/:category         删除（url 来自查询或表单）
func RegisterFilesRoutes(g *gin.RouterGroup) {
	filesRoutes := g.Group("/files")
	{
		filesRoutes.POST("/:category/:owner", handle.UploadFile)
		filesRoutes.GET("/:category/:owner", handle.ResolveFile)
		filesRoutes.PUT("/:category", handle.UpdateFile)
		filesRoutes.DELETE("/:category", handle.DeleteFile)
	}
}
