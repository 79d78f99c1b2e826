package handler

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// MaxUploadBytes 限制单张图片的大小。
const MaxUploadBytes = 10 << 20

var imageExtensions = map[string]string{
	"png":  ".png",
	"jpeg": ".jpg",
	"gif":  ".gif",
	"webp": ".webp",
}

// UploadImage 处理编辑器的图片上传请求
func (a *API) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "未找到上传的图片")
		return
	}
	if file.Size > MaxUploadBytes {
		respondError(c, http.StatusBadRequest, "图片不能超过10MB")
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "读取图片失败")
		return
	}
	cfg, format, err := image.DecodeConfig(src)
	src.Close()
	if err != nil {
		respondError(c, http.StatusBadRequest, "只允许上传图片文件")
		return
	}
	ext, ok := imageExtensions[format]
	if !ok {
		respondError(c, http.StatusBadRequest, "不支持的图片格式")
		return
	}

	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		slog.Error("create upload dir", "dir", a.uploadDir, "err", err)
		respondError(c, http.StatusInternalServerError, "创建上传目录失败")
		return
	}

	newFilename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.NewString(), ext)
	if err := c.SaveUploadedFile(file, filepath.Join(a.uploadDir, newFilename)); err != nil {
		slog.Error("save upload", "file", newFilename, "err", err)
		respondError(c, http.StatusInternalServerError, "保存文件失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":    path.Join(a.uploadURL, newFilename),
		"width":  cfg.Width,
		"height": cfg.Height,
	})
}
