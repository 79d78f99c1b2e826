package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/opencodedocs/internal/db"
	"gorm.io/gorm"
)

// ContentStore 保存每个页面的富文本内容。内容对存储层是不透明的字符串，
// 每次写入都整体替换，不做增量更新。
type ContentStore struct {
	db *gorm.DB
}

// NewContentStore creates a ContentStore.
func NewContentStore(gdb *gorm.DB) *ContentStore {
	return &ContentStore{db: gdb}
}

// WithTx returns a copy of the store bound to tx.
func (s *ContentStore) WithTx(tx *gorm.DB) *ContentStore {
	return &ContentStore{db: tx}
}

// Get 返回页面内容，没有记录时返回空字符串。
func (s *ContentStore) Get(pageID string) (string, error) {
	record, err := s.current(pageID)
	if err != nil || record == nil {
		return "", err
	}
	return record.Content, nil
}

// LastUpdated returns when the page content was last written, or the zero time.
func (s *ContentStore) LastUpdated(pageID string) (time.Time, error) {
	record, err := s.current(pageID)
	if err != nil || record == nil {
		return time.Time{}, err
	}
	return record.UpdatedAt, nil
}

// Replace 删除页面现有的全部内容记录（包括旧格式遗留的多条记录），
// 再写入唯一一条新记录。两步在同一个事务里，失败时保持原状。
func (s *ContentStore) Replace(pageID, content string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("page_id = ?", pageID).Delete(&db.ContentRecord{}).Error; err != nil {
			return err
		}

		record := db.ContentRecord{
			ID:      uuid.NewString(),
			PageID:  pageID,
			Type:    db.ContentTypeHTML,
			Content: content,
		}
		return tx.Create(&record).Error
	})
	return storageErr("replace content", err)
}

// DeleteAll removes every content record of a page.
func (s *ContentStore) DeleteAll(pageID string) error {
	err := s.db.Where("page_id = ?", pageID).Delete(&db.ContentRecord{}).Error
	return storageErr("delete content", err)
}

// Count returns how many content records exist for a page.
func (s *ContentStore) Count(pageID string) (int64, error) {
	var count int64
	if err := s.db.Model(&db.ContentRecord{}).Where("page_id = ?", pageID).Count(&count).Error; err != nil {
		return 0, storageErr("count content", err)
	}
	return count, nil
}

func (s *ContentStore) current(pageID string) (*db.ContentRecord, error) {
	var record db.ContentRecord
	err := s.db.Where("page_id = ?", pageID).
		Order("order_index asc").
		Order("created_at asc").
		Order("id asc").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storageErr("load content", err)
	}
	return &record, nil
}
