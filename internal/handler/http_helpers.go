package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/opencodedocs/internal/service"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func pathID(c *gin.Context, key string) (string, bool) {
	id := strings.TrimSpace(c.Param(key))
	if id == "" {
		respondError(c, http.StatusBadRequest, "缺少页面ID")
		return "", false
	}
	return id, true
}

// respondServiceError 把服务层的错误类别映射为 HTTP 状态码，存储错误会记录日志。
func respondServiceError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrTitleRequired):
		respondError(c, http.StatusBadRequest, "标题不能为空")
	case errors.Is(err, service.ErrTitleTooLong):
		respondError(c, http.StatusBadRequest, "标题不能超过100个字符")
	case errors.Is(err, service.ErrCycle):
		respondError(c, http.StatusBadRequest, "不能移动到自己的子页面下")
	case errors.Is(err, service.ErrValidation):
		respondError(c, http.StatusBadRequest, "请求参数不正确")
	case errors.Is(err, service.ErrParentNotFound):
		respondError(c, http.StatusNotFound, "父页面不存在")
	case errors.Is(err, service.ErrNotFound):
		respondError(c, http.StatusNotFound, "Page not found")
	case errors.Is(err, service.ErrProtectedEntry):
		respondError(c, http.StatusForbidden, "系统页面不能删除或移动")
	default:
		slog.Error(action, "path", c.Request.URL.Path, "err", err)
		respondError(c, http.StatusInternalServerError, action+"失败，请稍后重试")
	}
}
