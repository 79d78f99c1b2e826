package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/opencodedocs/internal/config"
	"github.com/opencodedocs/internal/db"
	"github.com/opencodedocs/internal/handler"
	"github.com/opencodedocs/internal/ratelimit"
	"github.com/opencodedocs/internal/router"
	"github.com/opencodedocs/internal/service"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	slog.SetDefault(newLogger(cfg.LogLevel))
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}

	seed, err := config.LoadSeed(cfg.SeedFile)
	if err != nil {
		return fmt.Errorf("load seed: %w", err)
	}
	if err := applySeed(seed); err != nil {
		return err
	}
	if cfg.WatchSeed {
		// 运行期间只补充新增的结构性条目，container 与保护列表以启动时为准。
		if err := config.WatchSeed(ctx, cfg.SeedFile, func(updated config.Seed) {
			if err := applySeed(updated); err != nil {
				slog.Warn("reseed menu", "err", err)
			}
		}); err != nil {
			return fmt.Errorf("watch seed: %w", err)
		}
	}

	if err := db.EnsureEditor(db.DB, cfg.EditorUserName, cfg.EditorPassword); err != nil {
		return fmt.Errorf("ensure editor account: %w", err)
	}

	converted, err := service.NewLegacyBlockMigrator(db.DB).Collapse()
	if err != nil {
		return fmt.Errorf("collapse legacy content: %w", err)
	}
	if converted > 0 {
		slog.Info("collapsed legacy content blocks", "pages", converted)
	}

	menus := service.NewMenuStore(db.DB, seed.Container, seed.Protected)
	pages := service.NewPageService(db.DB, menus, service.NewContentStore(db.DB), cfg.DefaultPageContent)
	api := handler.NewAPI(db.DB, pages, cfg.UploadDir, cfg.UploadURLPath)

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(api, router.Options{
		SessionSecret: cfg.SessionSecret,
		UploadDir:     cfg.UploadDir,
		UploadURLPath: cfg.UploadURLPath,
		CORSOrigins:   cfg.CORSOrigins,
		AuthEnabled:   cfg.AuthEnabled(),
		LoginLimiter:  ratelimit.NewLimiter(cfg.LoginRatePerMinute, time.Minute, cfg.LoginBurst),
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", cfg.ListenAddr, "db", cfg.DatabasePath, "auth", cfg.AuthEnabled())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func applySeed(seed config.Seed) error {
	inserted, err := db.SeedMenu(db.DB, seed.MenuEntries())
	if err != nil {
		return fmt.Errorf("seed menu: %w", err)
	}
	if inserted > 0 {
		slog.Info("seeded menu entries", "count", inserted)
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	ll := &slog.LevelVar{}
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		ll.Set(slog.LevelDebug)
	case "warn", "warning":
		ll.Set(slog.LevelWarn)
	case "error":
		ll.Set(slog.LevelError)
	default:
		ll.Set(slog.LevelInfo)
	}

	return slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
}
