package db

import "time"

const (
	// ContentTypeHTML 是当前唯一写入的内容类型，整页富文本保存在一条记录里。
	ContentTypeHTML = "html"
	// ContentTypeText 等为早期按块存储时遗留的类型。
	ContentTypeText  = "text"
	ContentTypeCode  = "code"
	ContentTypeImage = "image"
)

// ContentRecord 保存页面内容。旧版本按块存储多条记录，
// 现在每个页面只保留一条 OrderIndex 为 0 的 html 记录。
type ContentRecord struct {
	ID         string `gorm:"primaryKey;size:64"`
	PageID     string `gorm:"size:64;not null;index"`
	Type       string `gorm:"size:16;not null;default:html"`
	Content    string `gorm:"type:text"`
	Language   string `gorm:"size:32"`
	OrderIndex int    `gorm:"default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName 指定自定义表名。
func (ContentRecord) TableName() string {
	return "content_records"
}
