package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/opencodedocs/internal/db"
	"gorm.io/gorm"
)

// DefaultContainerID 是新建案例默认挂载的目录。
const DefaultContainerID = "cases"

// DefaultProtectedIDs 是默认不可删除的结构性条目。
var DefaultProtectedIDs = []string{"install", "usage", "cases"}

// MenuStore 负责菜单项的持久化、排序与删除保护。
type MenuStore struct {
	db        *gorm.DB
	container string
	protected map[string]struct{}
}

// NewMenuStore creates a MenuStore. New pages are attached under container;
// ids listed in protectedIDs can never be deleted or moved.
func NewMenuStore(gdb *gorm.DB, container string, protectedIDs []string) *MenuStore {
	container = strings.TrimSpace(container)
	if container == "" {
		container = DefaultContainerID
	}

	protected := make(map[string]struct{}, len(protectedIDs)+1)
	for _, id := range protectedIDs {
		if id = strings.TrimSpace(id); id != "" {
			protected[id] = struct{}{}
		}
	}
	protected[container] = struct{}{}

	return &MenuStore{db: gdb, container: container, protected: protected}
}

// WithTx returns a copy of the store bound to tx.
func (s *MenuStore) WithTx(tx *gorm.DB) *MenuStore {
	clone := *s
	clone.db = tx
	return &clone
}

// Container returns the id new pages are created under.
func (s *MenuStore) Container() string {
	return s.container
}

// ListFlat returns every entry ordered by sort order, then by creation order.
func (s *MenuStore) ListFlat() ([]db.MenuEntry, error) {
	var entries []db.MenuEntry
	if err := s.db.
		Order("sort_order asc").
		Order("created_at asc").
		Order("id asc").
		Find(&entries).Error; err != nil {
		return nil, storageErr("list menu", err)
	}
	return entries, nil
}

// Get fetches a single entry.
func (s *MenuStore) Get(id string) (*db.MenuEntry, error) {
	var entry db.MenuEntry
	if err := s.db.Where("id = ?", id).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, storageErr("get menu entry", err)
	}
	return &entry, nil
}

// IsProtected reports whether entry is a structural entry that cannot be removed.
func (s *MenuStore) IsProtected(entry db.MenuEntry) bool {
	if entry.Kind == db.MenuKindFolder {
		return true
	}
	_, ok := s.protected[entry.ID]
	return ok
}

// ValidateTitle trims title and checks it is present and short enough.
func ValidateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", ErrTitleRequired
	}
	if utf8.RuneCountInString(trimmed) > db.MenuTitleMaxRunes {
		return "", ErrTitleTooLong
	}
	return trimmed, nil
}

// Create 在案例目录下新增一个 file 类型的页面，SortOrder 取同级最大值加一。
// 读取最大值与插入在同一个事务里完成。
func (s *MenuStore) Create(title string) (*db.MenuEntry, error) {
	trimmed, err := ValidateTitle(title)
	if err != nil {
		return nil, err
	}

	parent := s.container
	entry := db.MenuEntry{
		ID:       uuid.NewString(),
		Title:    trimmed,
		Kind:     db.MenuKindFile,
		ParentID: &parent,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&db.MenuEntry{}).Where("id = ?", parent).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrParentNotFound
		}

		next, err := nextSortOrder(tx, parent)
		if err != nil {
			return err
		}
		entry.SortOrder = next
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, storageErr("create menu entry", err)
	}

	return &entry, nil
}

// Rename updates the title of an existing entry in place.
func (s *MenuStore) Rename(id, title string) (*db.MenuEntry, error) {
	trimmed, err := ValidateTitle(title)
	if err != nil {
		return nil, err
	}

	entry, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(entry).Update("title", trimmed).Error; err != nil {
		return nil, storageErr("rename menu entry", err)
	}
	entry.Title = trimmed
	return entry, nil
}

// Move 把条目挂到新的父节点下。parentID 为空表示移动到根级，
// sortOrder 小于等于 0 时排在新父节点的最后。
func (s *MenuStore) Move(id, parentID string, sortOrder int) (*db.MenuEntry, error) {
	parentID = strings.TrimSpace(parentID)

	var moved db.MenuEntry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var entries []db.MenuEntry
		if err := tx.Find(&entries).Error; err != nil {
			return err
		}
		byID := make(map[string]db.MenuEntry, len(entries))
		for _, entry := range entries {
			byID[entry.ID] = entry
		}

		entry, ok := byID[id]
		if !ok {
			return ErrPageNotFound
		}
		if s.IsProtected(entry) {
			return ErrProtectedEntry
		}

		var parent *string
		if parentID != "" {
			if parentID == id {
				return ErrCycle
			}
			if _, ok := byID[parentID]; !ok {
				return ErrParentNotFound
			}
			if isAncestor(byID, id, parentID) {
				return ErrCycle
			}
			parent = &parentID
		}

		if sortOrder <= 0 {
			next, err := nextSortOrder(tx, parentID)
			if err != nil {
				return err
			}
			sortOrder = next
		}

		if err := tx.Model(&entry).Updates(map[string]interface{}{
			"parent_id":  parent,
			"sort_order": sortOrder,
		}).Error; err != nil {
			return err
		}
		entry.ParentID = parent
		entry.SortOrder = sortOrder
		moved = entry
		return nil
	})
	if err != nil {
		return nil, storageErr("move menu entry", err)
	}
	return &moved, nil
}

// Reorder assigns sort orders 1..n to the children of parentID following ids.
func (s *MenuStore) Reorder(parentID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return ErrInvalidOrder
		}
		if _, ok := seen[id]; ok {
			return ErrInvalidOrder
		}
		seen[id] = struct{}{}
	}

	parentID = strings.TrimSpace(parentID)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for idx, id := range ids {
			query := whereParent(tx.Model(&db.MenuEntry{}).Where("id = ?", id), parentID)
			result := query.Update("sort_order", idx+1)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", ErrPageNotFound, id)
			}
		}
		return nil
	})
	return storageErr("reorder menu", err)
}

// Delete 删除一个非保护条目。它的子节点会挂到它原来的父节点上，
// 页面内容由调用方负责清理。
func (s *MenuStore) Delete(id string) error {
	entry, err := s.Get(id)
	if err != nil {
		return err
	}
	if s.IsProtected(*entry) {
		return ErrProtectedEntry
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.MenuEntry{}).
			Where("parent_id = ?", id).
			Update("parent_id", entry.ParentID).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&db.MenuEntry{}).Error
	})
	return storageErr("delete menu entry", err)
}

func nextSortOrder(tx *gorm.DB, parentID string) (int, error) {
	var maxSort int
	query := whereParent(tx.Model(&db.MenuEntry{}), parentID)
	if err := query.Select("COALESCE(MAX(sort_order), 0)").Scan(&maxSort).Error; err != nil {
		return 0, err
	}
	return maxSort + 1, nil
}

func whereParent(query *gorm.DB, parentID string) *gorm.DB {
	if parentID == "" {
		return query.Where("parent_id IS NULL")
	}
	return query.Where("parent_id = ?", parentID)
}

// isAncestor reports whether ancestorID appears on the parent chain of id.
func isAncestor(byID map[string]db.MenuEntry, ancestorID, id string) bool {
	visited := make(map[string]struct{}, len(byID))
	current, ok := byID[id]
	for ok {
		if _, loop := visited[current.ID]; loop {
			return false
		}
		visited[current.ID] = struct{}{}

		parent := current.ParentKey()
		if parent == "" {
			return false
		}
		if parent == ancestorID {
			return true
		}
		current, ok = byID[parent]
	}
	return false
}
