package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opencodedocs/internal/config"
	"github.com/opencodedocs/internal/db"
	"github.com/opencodedocs/internal/service"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestAPI(t *testing.T) *API {
	t.Helper()

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	cases := "cases"
	if _, err := db.SeedMenu(gdb, []db.MenuEntry{
		{ID: "install", Title: "安装", Kind: db.MenuKindStatic, SortOrder: 1},
		{ID: "usage", Title: "使用", Kind: db.MenuKindStatic, SortOrder: 2},
		{ID: "cases", Title: "案例", Kind: db.MenuKindFolder, SortOrder: 3},
		{ID: "intro", Title: "简介", Kind: db.MenuKindFile, ParentID: &cases, SortOrder: 1},
	}); err != nil {
		t.Fatalf("failed to seed menu: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	menus := service.NewMenuStore(gdb, service.DefaultContainerID, service.DefaultProtectedIDs)
	pages := service.NewPageService(gdb, menus, service.NewContentStore(gdb), config.DefaultPageContent)
	return NewAPI(gdb, pages, t.TempDir(), "/static/uploads")
}

func newJSONContext(method, target string, payload any) (*gin.Context, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, &body)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}

