package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/attachvault/pkg/configs"
	"github.com/yeisme/attachvault/pkg/internal/category"
	"github.com/yeisme/attachvault/pkg/internal/service"
	"github.com/yeisme/attachvault/pkg/internal/types"
	"github.com/yeisme/attachvault/pkg/log"
)

// UploadFile 上传附件，multipart 字段 file.
func UploadFile(c *gin.Context) {
	cat := c.Param("category")

	owner, ok := ownerParam(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		log.Logger().Warn().Err(err).Msg("invalid upload request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})

		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close() //nolint:errcheck

	svc := service.NewFileService(c.Request.Context())

	url, err := svc.Upload(c.Request.Context(), cat, owner, fh.Filename, f, fh.Size, fh.Header.Get("Content-Type"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, types.UploadResponse{URL: url})
}

// ResolveFile 解析访问链接：单值类别返回 url，多值类别返回 urls.
func ResolveFile(c *gin.Context) {
	cat := c.Param("category")

	owner, ok := ownerParam(c)
	if !ok {
		return
	}

	svc := service.NewFileService(c.Request.Context())

	urls, err := svc.Resolve(c.Request.Context(), cat, owner)
	if err != nil {
		writeError(c, err)
		return
	}

	policy := category.FromConfig(&configs.GetConfig().Files)
	if policy.Classify(cat) == category.Multi {
		c.JSON(http.StatusOK, types.ResolveResponse{URLs: urls})
		return
	}

	c.JSON(http.StatusOK, types.ResolveResponse{URL: urls[0]})
}

// UpdateFile 原地覆盖链接指向的附件，multipart 字段 file + 表单字段 url.
func UpdateFile(c *gin.Context) {
	cat := c.Param("category")

	var req types.UpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Logger().Warn().Err(err).Msg("invalid update request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close() //nolint:errcheck

	svc := service.NewFileService(c.Request.Context())

	if err := svc.Update(c.Request.Context(), cat, req.URL, f, fh.Size, fh.Header.Get("Content-Type")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// DeleteFile 删除链接指向的附件，url 来自查询或表单.
func DeleteFile(c *gin.Context) {
	cat := c.Param("category")

	rawURL := c.Query("url")
	if rawURL == "" {
		rawURL = c.PostForm("url")
	}

	if rawURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parameter 'url' is required"})
		return
	}

	svc := service.NewFileService(c.Request.Context())

	if err := svc.Delete(c.Request.Context(), cat, rawURL); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
