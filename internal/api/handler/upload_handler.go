package handler

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"carepoint/backend/pkg/response"
	"carepoint/backend/pkg/storage"
)

// FileOpener 附件读取（由 storage.LocalStore 实现）
type FileOpener interface {
	Open(name string) (*os.File, error)
}

// UploadHandler 报告附件下载
type UploadHandler struct {
	files FileOpener
}

// NewUploadHandler 创建 UploadHandler
func NewUploadHandler(files FileOpener) *UploadHandler {
	return &UploadHandler{files: files}
}

// Serve 读取已存储的附件
// GET /uploads/*filename
// TODO: 按报告归属校验访问权限，目前任何知道文件名的请求都可读取
func (h *UploadHandler) Serve(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("filename"), "/")

	f, err := h.files.Open(name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.NotFound(c, 15001, "附件不存在")
			return
		}
		response.InternalError(c)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		response.InternalError(c)
		return
	}
	c.Header("X-Content-Type-Options", "nosniff")
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
}
