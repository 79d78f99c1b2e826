package service

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/opencodedocs/internal/db"
)

func TestCreatePageThenReadReturnsDefaultContent(t *testing.T) {
	gdb := setupDocsTestDB(t)
	svc := newTestPageService(gdb, "<p>请在此处开始编写您的案例...</p>")

	entry, err := svc.CreatePage("Demo")
	if err != nil {
		t.Fatalf("CreatePage returned error: %v", err)
	}

	detail, err := svc.GetPageDetail(entry.ID)
	if err != nil {
		t.Fatalf("GetPageDetail returned error: %v", err)
	}
	if detail.Title != "Demo" {
		t.Fatalf("expected title Demo, got %q", detail.Title)
	}
	if detail.Content != "<p>请在此处开始编写您的案例...</p>" {
		t.Fatalf("expected default content, got %q", detail.Content)
	}
	if detail.LastUpdated.IsZero() {
		t.Fatal("expected last updated to be set")
	}
}

func TestDemoScenario(t *testing.T) {
	gdb := setupDocsTestDB(t)
	svc := newTestPageService(gdb, "")

	entry, err := svc.CreatePage("Demo")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	detail, err := svc.GetPageDetail(entry.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.Title != "Demo" || detail.Content != "" {
		t.Fatalf("unexpected detail after create: %+v", detail)
	}

	if err := svc.UpdatePage(entry.ID, "Demo2", "<p>hi</p>"); err != nil {
		t.Fatalf("update: %v", err)
	}

	detail, err = svc.GetPageDetail(entry.ID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if detail.Title != "Demo2" || detail.Content != "<p>hi</p>" {
		t.Fatalf("unexpected detail after update: %+v", detail)
	}
}

func TestCreatePageRejectsEmptyTitle(t *testing.T) {
	gdb := setupDocsTestDB(t)
	svc := newTestPageService(gdb, "<p>default</p>")

	if _, err := svc.CreatePage(""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if count := countRows(t, gdb, &db.MenuEntry{}); count != 3 {
		t.Fatalf("expected no new menu entry, found %d", count)
	}
	if count := countRows(t, gdb, &db.ContentRecord{}); count != 0 {
		t.Fatalf("expected no content record, found %d", count)
	}
}

func TestCreatePageRollsBackEntryWhenContentFails(t *testing.T) {
	gdb := setupDocsTestDB(t)
	svc := newTestPageService(gdb, "<p>default</p>")

	failInsertsInto(t, gdb, "content_records")

	if _, err := svc.CreatePage("孤儿"); err == nil {
		t.Fatal("expected error when content insert fails")
	}
	if count := countRows(t, gdb, &db.MenuEntry{}); count != 3 {
		t.Fatalf("expected menu entry to be rolled back, found %d entries", count)
	}
}

func TestGetPageDetailNotFound(t *testing.T) {
	gdb := setupDocsTestDB(t)
	svc := newTestPageService(gdb, "")

	if _, err := svc.GetPageDetail("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetPageDetailWithoutContentRecord(t *testing.T) {
	gdb := setupDocsTestDB(t)
	svc := newTestPageService(gdb, "")

	detail, err := svc.GetPageDetail("install")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.Content != "" || detail.Title != "Opencode 安装说明" {
		t.Fatalf("unexpected detail: %+v", detail)
	}
}

func TestUpdatePageKeepsExactlyOneRecord(t *testing.T) {
	gdb := setupDocsTestDB(t)
	svc := newTestPageService(gdb, "<p>default</p>")
	contents := NewContentStore(gdb)

	entry, err := svc.CreatePage("多次更新")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := svc.UpdatePage(entry.ID, "多次更新", fmt.Sprintf("<p>%d</p>", i)); err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
		if count, _ := contents.Count(entry.ID); count != 1 {
			t.Fatalf("after update %d expected one record, got %d", i, count)
		}
	}
}

func TestUpdatePageErrors(t *testing.T) {
	gdb := setupDocsTestDB(t)
	svc := newTestPageService(gdb, "")

	if err := svc.UpdatePage("missing", "标题", "<p>x</p>"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := svc.UpdatePage("install", "", "<p>x</p>"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if count := countRows(t, gdb, &db.ContentRecord{}); count != 0 {
		t.Fatalf("failed updates must not write content, found %d", count)
	}
}

func TestUpdatePageIsAtomicAcrossStores(t *testing.T) {
	gdb := setupDocsTestDB(t)
	svc := newTestPageService(gdb, "<p>default</p>")

	entry, err := svc.CreatePage("原标题")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	failInsertsInto(t, gdb, "content_records")

	if err := svc.UpdatePage(entry.ID, "新标题", "<p>new</p>"); err == nil {
		t.Fatal("expected update to fail")
	}

	var reloaded db.MenuEntry
	if err := gdb.First(&reloaded, "id = ?", entry.ID).Error; err != nil {
		t.Fatalf("reload entry: %v", err)
	}
	if reloaded.Title != "原标题" {
		t.Fatalf("title change must roll back, got %q", reloaded.Title)
	}
	content, _ := NewContentStore(gdb).Get(entry.ID)
	if content != "<p>default</p>" {
		t.Fatalf("content must stay unchanged, got %q", content)
	}
}

func TestDeletePageRemovesContent(t *testing.T) {
	gdb := setupDocsTestDB(t)
	svc := newTestPageService(gdb, "<p>default</p>")

	entry, err := svc.CreatePage("待删除")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeletePage(entry.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.GetPageDetail(entry.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if count, _ := NewContentStore(gdb).Count(entry.ID); count != 0 {
		t.Fatalf("expected content cascade, found %d records", count)
	}
	if err := svc.DeletePage(entry.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestDeletePageProtectedLeavesStoreUnchanged(t *testing.T) {
	gdb := setupDocsTestDB(t)
	svc := newTestPageService(gdb, "")
	contents := NewContentStore(gdb)

	for _, id := range []string{"install", "usage", "cases"} {
		if err := contents.Replace(id, "<p>"+id+"</p>"); err != nil {
			t.Fatalf("seed content: %v", err)
		}
	}

	for _, id := range []string{"install", "usage", "cases"} {
		if err := svc.DeletePage(id); !errors.Is(err, ErrProtectedEntry) {
			t.Fatalf("expected %s to be protected, got %v", id, err)
		}
		if count, _ := contents.Count(id); count != 1 {
			t.Fatalf("protected page %s lost its content", id)
		}
	}
	if count := countRows(t, gdb, &db.MenuEntry{}); count != 3 {
		t.Fatalf("expected menu unchanged, found %d entries", count)
	}
}

func TestMenuTreeIncludesCreatedPages(t *testing.T) {
	gdb := setupDocsTestDB(t)
	svc := newTestPageService(gdb, "")

	first, _ := svc.CreatePage("案例一")
	second, _ := svc.CreatePage("案例二")

	forest, err := svc.MenuTree()
	if err != nil {
		t.Fatalf("menu tree: %v", err)
	}
	if len(forest) != 3 || forest[2].ID != "cases" {
		t.Fatalf("unexpected roots: %+v", forest)
	}
	children := forest[2].Children
	if len(children) != 2 || children[0].ID != first.ID || children[1].ID != second.ID {
		t.Fatalf("unexpected cases children: %+v", children)
	}
}

func TestConcurrentCreatesGetDistinctSortOrders(t *testing.T) {
	gdb := setupDocsTestDB(t)
	svc := newTestPageService(gdb, "")

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := svc.CreatePage(fmt.Sprintf("并发 %d", i)); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent create failed: %v", err)
	}

	var orders []int
	if err := gdb.Model(&db.MenuEntry{}).Where("parent_id = ?", "cases").Order("sort_order asc").Pluck("sort_order", &orders).Error; err != nil {
		t.Fatalf("load sort orders: %v", err)
	}
	if len(orders) != workers {
		t.Fatalf("expected %d pages, got %d", workers, len(orders))
	}
	for i, order := range orders {
		if order != i+1 {
			t.Fatalf("expected contiguous sort orders, got %v", orders)
		}
	}
}
