package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/opencodedocs/internal/config"
	"github.com/opencodedocs/internal/db"
)

// 创建编辑者账号，-reset 时覆盖已有密码。
func main() {
	cfg := config.Load()
	username := flag.String("username", cfg.EditorUserName, "editor user name")
	password := flag.String("password", cfg.EditorPassword, "editor password")
	reset := flag.Bool("reset", false, "overwrite the password of an existing account")
	flag.Parse()

	if *username == "" || *password == "" {
		log.Fatal("用户名和密码不能为空，可通过 -username/-password 或 EDITOR_USER_NAME/EDITOR_PASSWORD 提供")
	}

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	if *reset {
		if err := db.SetEditorPassword(db.DB, *username, *password); err != nil {
			log.Fatal("重置密码失败:", err)
		}
		fmt.Printf("编辑者 %s 的密码已更新\n", *username)
		return
	}

	if err := db.EnsureEditor(db.DB, *username, *password); err != nil {
		log.Fatal("创建用户失败:", err)
	}
	fmt.Printf("编辑者 %s 已就绪（已存在的账号不会修改密码）\n", *username)
}
