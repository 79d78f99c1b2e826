package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

// DefaultDatabasePath 是未配置路径时使用的 SQLite 文件。
const DefaultDatabasePath = "opencode-docs.db"

// Init 初始化数据库连接并执行自动迁移。
// databasePath 为空时将回退到默认值 opencode-docs.db。
func Init(databasePath string) error {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = DefaultDatabasePath
	}

	if err := ensureParentDir(path); err != nil {
		return err
	}

	var err error
	DB, err = gorm.Open(sqlite.Open(withBusyTimeout(path)), &gorm.Config{})
	if err != nil {
		return err
	}

	return Migrate(DB)
}

// Migrate 创建核心表，并把旧版 menu_items/content_blocks 表中的数据搬到新表。
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&User{},
		&MenuEntry{},
		&ContentRecord{},
	); err != nil {
		return err
	}

	migrator := gdb.Migrator()
	if migrator.HasTable("menu_items") {
		if err := gdb.Exec(`INSERT INTO menu_entries (id, title, kind, parent_id, sort_order, created_at, updated_at)
			SELECT id, title, COALESCE(NULLIF(type, ''), 'file'), NULLIF(parent_id, ''), COALESCE(sort_order, 0), CURRENT_TIMESTAMP, CURRENT_TIMESTAMP
			FROM menu_items
			WHERE id NOT IN (SELECT id FROM menu_entries)`).Error; err != nil {
			return err
		}
	}

	if migrator.HasTable("content_blocks") {
		if err := gdb.Exec(`INSERT INTO content_records (id, page_id, type, content, language, order_index, created_at, updated_at)
			SELECT id, page_id, COALESCE(NULLIF(type, ''), 'html'), COALESCE(content, ''), COALESCE(language, ''), COALESCE(order_index, 0), CURRENT_TIMESTAMP, CURRENT_TIMESTAMP
			FROM content_blocks
			WHERE id NOT IN (SELECT id FROM content_records)`).Error; err != nil {
			return err
		}
	}

	if err := gdb.Model(&MenuEntry{}).
		Where("parent_id = ''").
		Update("parent_id", nil).Error; err != nil {
		return err
	}

	return nil
}

// SeedMenu 插入缺失的结构性菜单项，已存在的记录保持不变。
// 返回实际新增的条目数量。
func SeedMenu(gdb *gorm.DB, entries []MenuEntry) (int64, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	result := gdb.Clauses(clause.OnConflict{DoNothing: true}).Create(&entries)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func withBusyTimeout(path string) string {
	if strings.Contains(path, "_busy_timeout") {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&_busy_timeout=5000"
	}
	return path + "?_busy_timeout=5000"
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
