package watcher

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/BadLiar37/langchain-service/internal/domain/events"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/config"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/extract"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/log"
)

// defaultDebounce 默认防抖延迟
const defaultDebounce = 500 * time.Millisecond

// FileWatcher 文档投放目录监听器
// 监听目录中受支持格式的文件，防抖后发布文档文件事件
type FileWatcher struct {
	dir      string
	debounce time.Duration
	enabled  bool

	eventBus events.EventBus
	registry *extract.Registry
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	// 防抖相关
	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	// 控制
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewFileWatcher 创建文档目录监听器
func NewFileWatcher(cfg *config.WatcherConfig, eventBus events.EventBus, registry *extract.Registry) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	dir := cfg.Dir
	if dir == "" {
		dir = filepath.Join(config.GetDataDir(), "documents")
	}

	debounce := defaultDebounce
	if cfg.DebounceMS > 0 {
		debounce = time.Duration(cfg.DebounceMS) * time.Millisecond
	}

	return &FileWatcher{
		dir:            dir,
		debounce:       debounce,
		enabled:        cfg.Enabled,
		eventBus:       eventBus,
		registry:       registry,
		watcher:        watcher,
		logger:         log.NewModuleLogger("watcher", "file_watcher"),
		debounceTimers: make(map[string]*time.Timer),
		stopCh:         make(chan struct{}),
	}, nil
}

// Dir 返回监听的目录
func (fw *FileWatcher) Dir() string {
	return fw.dir
}

// Enabled 返回是否启用监听
func (fw *FileWatcher) Enabled() bool {
	return fw.enabled
}

// Start 启动文件监听
// 启动时对目录做一次存量扫描，已存在的文件按创建事件发布
func (fw *FileWatcher) Start() error {
	if !fw.enabled {
		fw.logger.Info("File watcher disabled")
		return nil
	}

	fw.logger.Info("Starting file watcher", "dir", fw.dir)

	if err := os.MkdirAll(fw.dir, 0755); err != nil {
		return fmt.Errorf("failed to create watch directory: %w", err)
	}

	if err := fw.watcher.Add(fw.dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", fw.dir, err)
	}

	count := fw.scanExisting()
	if count > 0 {
		fw.logger.Info("Initial scan completed", "files", count)
	}

	// 启动事件处理循环
	fw.wg.Add(1)
	go fw.watchLoop()

	return nil
}

// Stop 停止文件监听
func (fw *FileWatcher) Stop() {
	if !fw.enabled {
		return
	}

	fw.logger.Info("Stopping file watcher")

	close(fw.stopCh)
	fw.watcher.Close()
	fw.wg.Wait()

	// 取消所有防抖定时器
	fw.debounceMu.Lock()
	for _, timer := range fw.debounceTimers {
		timer.Stop()
	}
	fw.debounceMu.Unlock()

	fw.logger.Info("File watcher stopped")
}

// scanExisting 扫描目录中已存在的文档文件
func (fw *FileWatcher) scanExisting() int {
	count := 0

	entries, err := os.ReadDir(fw.dir)
	if err != nil {
		fw.logger.Error("Failed to read watch directory", "error", err)
		return count
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !fw.registry.Supported(entry.Name()) {
			continue
		}

		filePath := filepath.Join(fw.dir, entry.Name())
		fileInfo, err := os.Stat(filePath)
		if err != nil {
			continue
		}

		fw.eventBus.Publish(&events.DocumentFileEvent{
			EventType: events.DocumentFileCreated,
			FilePath:  filePath,
			ModTime:   fileInfo.ModTime(),
			FileSize:  fileInfo.Size(),
			EventTime: time.Now(),
		})
		count++
	}

	return count
}

// watchLoop 事件监听循环
func (fw *FileWatcher) watchLoop() {
	defer fw.wg.Done()

	for {
		select {
		case <-fw.stopCh:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleFsEvent(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("Watcher error", "error", err)
		}
	}
}

// handleFsEvent 处理文件系统事件（带防抖）
// 编辑器写文件往往触发连续多次 Write，防抖合并为一次摄入
func (fw *FileWatcher) handleFsEvent(fsEvent fsnotify.Event) {
	if !fsEvent.Has(fsnotify.Create) && !fsEvent.Has(fsnotify.Write) {
		return
	}
	if !fw.registry.Supported(fsEvent.Name) {
		return
	}

	fw.debounceMu.Lock()
	defer fw.debounceMu.Unlock()

	// 取消之前的定时器
	if timer, exists := fw.debounceTimers[fsEvent.Name]; exists {
		timer.Stop()
	}

	// 创建新的防抖定时器
	fw.debounceTimers[fsEvent.Name] = time.AfterFunc(fw.debounce, func() {
		fw.emitDocumentFileEvent(fsEvent)

		// 清理定时器
		fw.debounceMu.Lock()
		delete(fw.debounceTimers, fsEvent.Name)
		fw.debounceMu.Unlock()
	})
}

// emitDocumentFileEvent 发送文档文件事件
func (fw *FileWatcher) emitDocumentFileEvent(fsEvent fsnotify.Event) {
	fileInfo, err := os.Stat(fsEvent.Name)
	if err != nil {
		// 防抖窗口内文件可能已被删除
		return
	}
	if fileInfo.IsDir() {
		return
	}

	var eventType events.EventType
	switch {
	case fsEvent.Has(fsnotify.Create):
		eventType = events.DocumentFileCreated
	case fsEvent.Has(fsnotify.Write):
		eventType = events.DocumentFileModified
	default:
		return
	}

	fw.eventBus.Publish(&events.DocumentFileEvent{
		EventType: eventType,
		FilePath:  fsEvent.Name,
		ModTime:   fileInfo.ModTime(),
		FileSize:  fileInfo.Size(),
		EventTime: time.Now(),
	})

	fw.logger.Debug("Document file event emitted",
		"type", eventType,
		"path", fsEvent.Name,
	)
}
