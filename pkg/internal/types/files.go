// Package types 定义 HTTP 层的请求与响应结构.
package types

// UploadResponse 上传成功后返回限时访问链接.
type UploadResponse struct {
	URL string `json:"url"`
}

// ResolveResponse 解析结果：单值类别填 URL，多值类别填 URLs.
type ResolveResponse struct {
	URL  string   `json:"url,omitempty"`
	URLs []string `json:"urls,omitempty"`
}

// UpdateRequest 原地覆盖请求，file 部分另行从 multipart 读取.
type UpdateRequest struct {
	URL string `form:"url" rule:"required,url"`
}

// DeleteRequest 删除请求.
type DeleteRequest struct {
	URL string `form:"url" rule:"required,url"`
}
