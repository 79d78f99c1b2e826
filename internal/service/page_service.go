package service

import (
	"sync"
	"time"

	"github.com/opencodedocs/internal/db"
	"gorm.io/gorm"
)

// PageDetail is the read model of a single page.
type PageDetail struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// PageService 组合 MenuStore 与 ContentStore，保证菜单项与内容之间的引用完整性。
// 每个复合写操作都在一个事务里完成；写操作之间通过互斥锁串行执行。
type PageService struct {
	db             *gorm.DB
	menus          *MenuStore
	contents       *ContentStore
	defaultContent string

	writeMu sync.Mutex
}

// NewPageService returns a new PageService instance.
func NewPageService(gdb *gorm.DB, menus *MenuStore, contents *ContentStore, defaultContent string) *PageService {
	return &PageService{
		db:             gdb,
		menus:          menus,
		contents:       contents,
		defaultContent: defaultContent,
	}
}

// ListMenu returns the flat, ordered menu.
func (s *PageService) ListMenu() ([]db.MenuEntry, error) {
	return s.menus.ListFlat()
}

// MenuTree returns the menu projected into a forest.
func (s *PageService) MenuTree() ([]*MenuNode, error) {
	entries, err := s.menus.ListFlat()
	if err != nil {
		return nil, err
	}
	return BuildTree(entries), nil
}

// GetPageDetail 读取页面标题与内容。内容不存在时返回空字符串而不是错误。
func (s *PageService) GetPageDetail(id string) (*PageDetail, error) {
	var detail PageDetail
	err := s.db.Transaction(func(tx *gorm.DB) error {
		entry, err := s.menus.WithTx(tx).Get(id)
		if err != nil {
			return err
		}

		contents := s.contents.WithTx(tx)
		content, err := contents.Get(id)
		if err != nil {
			return err
		}
		updatedAt, err := contents.LastUpdated(id)
		if err != nil {
			return err
		}

		detail = PageDetail{
			ID:          entry.ID,
			Title:       entry.Title,
			Content:     content,
			LastUpdated: entry.UpdatedAt,
		}
		if updatedAt.After(detail.LastUpdated) {
			detail.LastUpdated = updatedAt
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("get page", err)
	}
	return &detail, nil
}

// CreatePage 新建案例页面并写入默认内容。菜单项与内容在同一个事务中提交，
// 任一步失败都不会留下孤立记录。
func (s *PageService) CreatePage(title string) (*db.MenuEntry, error) {
	if _, err := ValidateTitle(title); err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var created *db.MenuEntry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		entry, err := s.menus.WithTx(tx).Create(title)
		if err != nil {
			return err
		}
		if err := s.contents.WithTx(tx).Replace(entry.ID, s.defaultContent); err != nil {
			return err
		}
		created = entry
		return nil
	})
	if err != nil {
		return nil, storageErr("create page", err)
	}
	return created, nil
}

// UpdatePage 更新标题并整体替换内容，两者要么都生效，要么都不生效。
func (s *PageService) UpdatePage(id, title, content string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		menus := s.menus.WithTx(tx)
		if _, err := menus.Get(id); err != nil {
			return err
		}
		if _, err := menus.Rename(id, title); err != nil {
			return err
		}
		return s.contents.WithTx(tx).Replace(id, content)
	})
	return storageErr("update page", err)
}

// DeletePage 删除页面及其全部内容。受保护条目会被拒绝，此时内容保持不变。
func (s *PageService) DeletePage(id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.menus.WithTx(tx).Delete(id); err != nil {
			return err
		}
		return s.contents.WithTx(tx).DeleteAll(id)
	})
	return storageErr("delete page", err)
}

// MovePage re-parents a page. An empty parentID moves it to the root level.
func (s *PageService) MovePage(id, parentID string, sortOrder int) (*db.MenuEntry, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.menus.Move(id, parentID, sortOrder)
}

// ReorderChildren rewrites the sibling order below parentID.
func (s *PageService) ReorderChildren(parentID string, ids []string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.menus.Reorder(parentID, ids)
}
