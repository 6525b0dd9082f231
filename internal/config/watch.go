package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// reloadDebounce 合并同一次保存产生的多个事件（截断 + 写入）
const reloadDebounce = 100 * time.Millisecond

// errEmptyProfiles 文件为空（通常是截断后尚未写入）
var errEmptyProfiles = errors.New("profiles file is empty")

// WatchProfiles 监听配置文件，保存后重新加载并替换 registry 中的配置
// 加载失败或文件为空时保留原配置；ctx 取消后返回
func WatchProfiles(ctx context.Context, path string, registry *ProfileRegistry, logger *zap.Logger) error {
	return watchProfiles(ctx, path, registry, logger, nil)
}

// watchProfiles ready 在监听建立后调用（可为 nil）
func watchProfiles(ctx context.Context, path string, registry *ProfileRegistry, logger *zap.Logger, ready func()) error {
	path = filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// 监听所在目录：rename 方式保存会替换 inode，直接监听文件会丢失
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}
	logger.Info("Watching profiles file", zap.String("path", path))
	if ready != nil {
		ready()
	}

	debounce := time.NewTimer(reloadDebounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			// Remove/Rename 只是旧文件消失，新内容以 Create/Write 到达
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			debounce.Reset(reloadDebounce)

		case <-debounce.C:
			p, err := readProfilesForReload(path)
			if err != nil {
				logger.Warn("Failed to reload profiles, keeping previous",
					zap.String("path", path), zap.Error(err))
				continue
			}
			registry.Replace(p)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("Profiles watcher error", zap.Error(err))
		}
	}
}

// readProfilesForReload 与 LoadProfiles 相同，但空文件视为错误
func readProfilesForReload(path string) (*Profiles, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errEmptyProfiles
	}
	return ParseProfiles(data)
}
