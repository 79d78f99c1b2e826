package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/opencodedocs/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDocsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:docs-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	seed := []db.MenuEntry{
		{ID: "install", Title: "Opencode 安装说明", Kind: db.MenuKindStatic, SortOrder: 1},
		{ID: "usage", Title: "Opencode 使用说明", Kind: db.MenuKindStatic, SortOrder: 2},
		{ID: "cases", Title: "Opencode 使用案例", Kind: db.MenuKindFolder, SortOrder: 3},
	}
	if _, err := db.SeedMenu(gdb, seed); err != nil {
		t.Fatalf("failed to seed menu: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func newTestPageService(gdb *gorm.DB, defaultContent string) *PageService {
	menus := NewMenuStore(gdb, DefaultContainerID, DefaultProtectedIDs)
	return NewPageService(gdb, menus, NewContentStore(gdb), defaultContent)
}

func countRows(t *testing.T, gdb *gorm.DB, model interface{}) int64 {
	t.Helper()
	var count int64
	if err := gdb.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return count
}

// failInsertsInto 让指定表上的 INSERT 失败，用于验证事务回滚。
func failInsertsInto(t *testing.T, gdb *gorm.DB, table string) {
	t.Helper()
	name := "test:fail_" + table
	err := gdb.Callback().Create().Before("gorm:create").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Table == table {
			_ = tx.AddError(fmt.Errorf("injected failure on %s", table))
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
}

func strPtr(s string) *string { return &s }
