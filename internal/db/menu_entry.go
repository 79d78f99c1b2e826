package db

import "time"

const (
	// MenuKindStatic 表示固定的说明页面。
	MenuKindStatic = "static"
	// MenuKindFolder 表示仅用于分组的目录节点。
	MenuKindFolder = "folder"
	// MenuKindFile 表示可编辑的文档页面。
	MenuKindFile = "file"
)

// MenuTitleMaxRunes 限制菜单标题长度。
const MenuTitleMaxRunes = 100

// MenuEntry 是文档目录中的一个节点，通过 ParentID 形成层级结构。
type MenuEntry struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Title     string    `gorm:"size:100;not null" json:"title"`
	Kind      string    `gorm:"size:16;not null;default:file" json:"type"`
	ParentID  *string   `gorm:"size:64;index" json:"parentId"`
	SortOrder int       `gorm:"default:0;index" json:"sortOrder"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName 指定自定义表名。
func (MenuEntry) TableName() string {
	return "menu_entries"
}

// ParentKey 返回父节点 ID，根节点返回空字符串。
func (e MenuEntry) ParentKey() string {
	if e.ParentID == nil {
		return ""
	}
	return *e.ParentID
}

// IsValidMenuKind reports whether kind is one of the known menu kinds.
func IsValidMenuKind(kind string) bool {
	switch kind {
	case MenuKindStatic, MenuKindFolder, MenuKindFile:
		return true
	}
	return false
}
