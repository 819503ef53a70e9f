// Package cache 提供回答缓存
// 以 (question, context, temperature) 的内容指纹为键，带 TTL 和容量上限
package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/BadLiar37/langchain-service/internal/domain/query"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/config"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/log"
)

// Key 计算缓存键
// 纯函数：question/context 去除首尾空白，temperature 四舍五入到 3 位小数，
// 按固定键序序列化后取 SHA-256。相同输入必得相同键
func Key(question, context string, temperature float64) string {
	rounded := math.Round(temperature*1000) / 1000

	// map 序列化时按键名排序，保证规范形式稳定
	data := map[string]interface{}{
		"question":    strings.TrimSpace(question),
		"context":     strings.TrimSpace(context),
		"temperature": rounded,
	}
	canonical, _ := json.Marshal(data)

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}

// entry 缓存条目
type entry struct {
	key       string
	value     query.Generation
	expiresAt time.Time
}

// ResponseCache 回答缓存
// 固定容量 + LRU 淘汰，每条独立 TTL 到期，与访问时间无关。
// 读取计入 LRU 新近度但不延长 TTL。所有访问由互斥锁串行化
type ResponseCache struct {
	mu       sync.Mutex
	maxSize  int
	ttl      time.Duration
	order    *list.List // 队首为最近使用
	items    map[string]*list.Element
	logger   *slog.Logger
	nowFunc  func() time.Time // 测试注入
}

// NewResponseCache 创建回答缓存
func NewResponseCache(cfg *config.CacheConfig) *ResponseCache {
	return &ResponseCache{
		maxSize: cfg.MaxSize,
		ttl:     time.Duration(cfg.TTLSeconds) * time.Second,
		order:   list.New(),
		items:   make(map[string]*list.Element),
		logger:  log.NewModuleLogger("cache", "response_cache"),
		nowFunc: time.Now,
	}
}

// Get 读取缓存条目
// 过期条目在读取时惰性删除并视为未命中
func (c *ResponseCache) Get(key string) (query.Generation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return query.Generation{}, false
	}

	ent := elem.Value.(*entry)
	if c.nowFunc().After(ent.expiresAt) {
		c.removeElement(elem)
		return query.Generation{}, false
	}

	// 命中计入新近度，TTL 保持不变
	c.order.MoveToFront(elem)
	return ent.value, true
}

// Set 写入缓存条目
// 超出容量时淘汰最久未使用的条目；并发写同一键时后写覆盖
func (c *ResponseCache) Set(key string, value query.Generation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.nowFunc().Add(c.ttl)

	if elem, ok := c.items[key]; ok {
		ent := elem.Value.(*entry)
		ent.value = value
		ent.expiresAt = expiresAt
		c.order.MoveToFront(elem)
		return
	}

	elem := c.order.PushFront(&entry{
		key:       key,
		value:     value,
		expiresAt: expiresAt,
	})
	c.items[key] = elem

	for c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.logger.Debug("Evicting LRU cache entry",
			"key", keyPrefix(oldest.Value.(*entry).key),
		)
		c.removeElement(oldest)
	}
}

// Len 当前条目数（含尚未惰性清理的过期条目）
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// removeElement 删除条目，调用方须持有锁
func (c *ResponseCache) removeElement(elem *list.Element) {
	c.order.Remove(elem)
	delete(c.items, elem.Value.(*entry).key)
}

// keyPrefix 日志用的键前缀，键可以短于 8 字节
func keyPrefix(key string) string {
	if len(key) <= 8 {
		return key
	}
	return key[:8]
}
