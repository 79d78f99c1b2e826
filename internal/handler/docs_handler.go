package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type pagePayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type casePayload struct {
	Title string `json:"title"`
	Type  string `json:"type"`
}

type movePayload struct {
	ParentID  string `json:"parentId"`
	SortOrder int    `json:"sortOrder"`
}

type reorderPayload struct {
	ParentID string   `json:"parentId"`
	IDs      []string `json:"ids"`
}

// GetMenu 返回按排序的扁平菜单列表
func (a *API) GetMenu(c *gin.Context) {
	entries, err := a.pages.ListMenu()
	if err != nil {
		respondServiceError(c, err, "获取菜单")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetMenuTree 返回树形菜单
func (a *API) GetMenuTree(c *gin.Context) {
	tree, err := a.pages.MenuTree()
	if err != nil {
		respondServiceError(c, err, "获取菜单")
		return
	}
	c.JSON(http.StatusOK, tree)
}

// GetPage 返回单个页面的标题与内容
func (a *API) GetPage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	detail, err := a.pages.GetPageDetail(id)
	if err != nil {
		respondServiceError(c, err, "获取页面")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// UpdatePage 保存标题和整页内容
func (a *API) UpdatePage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var payload pagePayload
	if !bindJSON(c, &payload, "请求数据格式错误") {
		return
	}

	if err := a.pages.UpdatePage(id, payload.Title, a.sanitizeContent(payload.Content)); err != nil {
		respondServiceError(c, err, "保存页面")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CreateCase 在案例目录下新建页面
func (a *API) CreateCase(c *gin.Context) {
	var payload casePayload
	if !bindJSON(c, &payload, "请求数据格式错误") {
		return
	}

	entry, err := a.pages.CreatePage(payload.Title)
	if err != nil {
		respondServiceError(c, err, "创建页面")
		return
	}

	c.Header("Location", "/api/docs/page/"+entry.ID)
	c.JSON(http.StatusCreated, entry)
}

// DeleteCase 删除页面及其内容
func (a *API) DeleteCase(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := a.pages.DeletePage(id); err != nil {
		respondServiceError(c, err, "删除页面")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MoveEntry 调整页面的父节点与位置
func (a *API) MoveEntry(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var payload movePayload
	if !bindJSON(c, &payload, "请求数据格式错误") {
		return
	}

	entry, err := a.pages.MovePage(id, strings.TrimSpace(payload.ParentID), payload.SortOrder)
	if err != nil {
		respondServiceError(c, err, "移动页面")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// ReorderMenu 按给定顺序重排同级页面
func (a *API) ReorderMenu(c *gin.Context) {
	var payload reorderPayload
	if !bindJSON(c, &payload, "请求数据格式错误") {
		return
	}
	if len(payload.IDs) == 0 {
		respondError(c, http.StatusBadRequest, "排序列表不能为空")
		return
	}

	if err := a.pages.ReorderChildren(payload.ParentID, payload.IDs); err != nil {
		respondServiceError(c, err, "更新排序")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
