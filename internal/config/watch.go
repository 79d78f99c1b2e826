package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// WatchSeed 监听种子文件，文件被写入或替换后重新解析并回调 onChange。
// 解析失败只记录警告，保留上一次的有效内容。ctx 结束时停止监听。
func WatchSeed(ctx context.Context, path string, onChange func(Seed)) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// 编辑器常用“写临时文件再重命名”的方式保存，所以监听目录而不是文件本身。
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return err
	}

	go func() {
		defer func() { _ = w.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				raw, err := os.ReadFile(abs)
				if err != nil {
					slog.WarnContext(ctx, "read seed file", "path", abs, "err", err)
					continue
				}
				seed, err := ParseSeed(raw)
				if err != nil {
					slog.WarnContext(ctx, "ignoring invalid seed file", "path", abs, "err", err)
					continue
				}
				onChange(seed)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.WarnContext(ctx, "error watching seed file", "err", err)
			}
		}
	}()
	return nil
}
