package main

import (
	"fmt"
	"log"

	"github.com/opencodedocs/internal/config"
	"github.com/opencodedocs/internal/db"
	"github.com/opencodedocs/internal/service"
	"gorm.io/gorm"
)

type demoCase struct {
	Title   string
	Content string
}

var demoCases = []demoCase{
	{
		Title:   "用 Opencode 重构遗留服务",
		Content: "<h2>背景</h2><p>一个没有测试的老服务，需要拆分模块。</p><pre><code class=\"language-bash\">opencode run \"拆分 payment 模块\"</code></pre>",
	},
	{
		Title:   "批量生成接口文档",
		Content: "<h2>步骤</h2><ol><li>扫描路由</li><li>生成 OpenAPI 描述</li><li>人工校对</li></ol>",
	},
	{
		Title:   "排查线上内存泄漏",
		Content: "<p>结合 pprof 输出与 Opencode 的分析，定位到未关闭的连接池。</p>",
	},
}

// 示例案例生成器
func main() {
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	seed, err := config.LoadSeed(cfg.SeedFile)
	if err != nil {
		log.Fatal("读取菜单种子失败:", err)
	}
	if _, err := db.SeedMenu(db.DB, seed.MenuEntries()); err != nil {
		log.Fatal("写入菜单种子失败:", err)
	}

	fmt.Println("开始生成示例案例...")
	created, err := createDemoCases(db.DB, seed, demoCases)
	if err != nil {
		log.Fatal("生成示例案例失败:", err)
	}
	fmt.Printf("示例案例生成完成，新增 %d 篇\n", created)
}

// createDemoCases 通过 PageService 写入示例案例，标题已存在的案例会跳过。
func createDemoCases(gdb *gorm.DB, seed config.Seed, cases []demoCase) (int, error) {
	menus := service.NewMenuStore(gdb, seed.Container, seed.Protected)
	pages := service.NewPageService(gdb, menus, service.NewContentStore(gdb), config.DefaultPageContent)

	existing, err := pages.ListMenu()
	if err != nil {
		return 0, err
	}
	titles := make(map[string]struct{}, len(existing))
	for _, entry := range existing {
		titles[entry.Title] = struct{}{}
	}

	created := 0
	for _, demo := range cases {
		if _, ok := titles[demo.Title]; ok {
			fmt.Printf("案例 %q 已存在，跳过\n", demo.Title)
			continue
		}
		entry, err := pages.CreatePage(demo.Title)
		if err != nil {
			return created, err
		}
		if err := pages.UpdatePage(entry.ID, demo.Title, demo.Content); err != nil {
			return created, err
		}
		titles[demo.Title] = struct{}{}
		created++
	}
	return created, nil
}
