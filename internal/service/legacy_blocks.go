package service

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/opencodedocs/internal/db"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"
)

var codeLanguagePattern = regexp.MustCompile(`^[A-Za-z0-9_+-]{1,32}$`)

// LegacyBlockMigrator 把早期按块存储的内容（text/code/image 多条记录）
// 合并成一条 html 记录。它只在启动时运行，ContentStore 本身不感知块结构。
type LegacyBlockMigrator struct {
	db       *gorm.DB
	contents *ContentStore
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

// NewLegacyBlockMigrator creates a migrator writing through a ContentStore on gdb.
func NewLegacyBlockMigrator(gdb *gorm.DB) *LegacyBlockMigrator {
	policy := bluemonday.UGCPolicy()
	policy.AllowDataURIImages()
	policy.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[A-Za-z0-9_+-]+$`)).OnElements("code")

	return &LegacyBlockMigrator{
		db:       gdb,
		contents: NewContentStore(gdb),
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Linkify),
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		),
		policy: policy,
	}
}

// PendingPages lists pages still stored in the block format: more than one
// record, or any record that is not html.
func (m *LegacyBlockMigrator) PendingPages() ([]string, error) {
	var ids []string
	if err := m.db.Model(&db.ContentRecord{}).
		Group("page_id").
		Having("COUNT(*) > 1 OR SUM(CASE WHEN type <> ? THEN 1 ELSE 0 END) > 0", db.ContentTypeHTML).
		Order("page_id asc").
		Pluck("page_id", &ids).Error; err != nil {
		return nil, storageErr("list legacy pages", err)
	}
	return ids, nil
}

// Collapse rewrites every pending page as a single html record and returns how
// many pages were converted.
func (m *LegacyBlockMigrator) Collapse() (int, error) {
	pages, err := m.PendingPages()
	if err != nil {
		return 0, err
	}

	converted := 0
	for _, pageID := range pages {
		err := m.db.Transaction(func(tx *gorm.DB) error {
			var blocks []db.ContentRecord
			if err := tx.Where("page_id = ?", pageID).
				Order("order_index asc").
				Order("created_at asc").
				Order("id asc").
				Find(&blocks).Error; err != nil {
				return err
			}

			rendered, err := m.RenderBlocks(blocks)
			if err != nil {
				return err
			}
			return m.contents.WithTx(tx).Replace(pageID, rendered)
		})
		if err != nil {
			return converted, storageErr(fmt.Sprintf("collapse page %s", pageID), err)
		}
		converted++
	}
	return converted, nil
}

// RenderBlocks 将有序的内容块渲染为一段 HTML。
// text 块按 Markdown 渲染，code 块转义后放进 pre/code，image 块转成 img 标签。
func (m *LegacyBlockMigrator) RenderBlocks(blocks []db.ContentRecord) (string, error) {
	parts := make([]string, 0, len(blocks))
	for _, block := range blocks {
		switch block.Type {
		case db.ContentTypeHTML:
			if strings.TrimSpace(block.Content) != "" {
				parts = append(parts, block.Content)
			}
		case db.ContentTypeCode:
			class := ""
			if lang := strings.TrimSpace(block.Language); codeLanguagePattern.MatchString(lang) {
				class = fmt.Sprintf(` class="language-%s"`, lang)
			}
			parts = append(parts, fmt.Sprintf("<pre><code%s>%s</code></pre>", class, html.EscapeString(block.Content)))
		case db.ContentTypeImage:
			src := strings.TrimSpace(block.Content)
			if src == "" {
				continue
			}
			img := fmt.Sprintf(`<p><img src="%s" alt=""></p>`, html.EscapeString(src))
			parts = append(parts, m.policy.Sanitize(img))
		default:
			if strings.TrimSpace(block.Content) == "" {
				continue
			}
			var buf bytes.Buffer
			if err := m.markdown.Convert([]byte(block.Content), &buf); err != nil {
				return "", err
			}
			parts = append(parts, strings.TrimSpace(m.policy.Sanitize(buf.String())))
		}
	}
	return strings.Join(parts, "\n"), nil
}
