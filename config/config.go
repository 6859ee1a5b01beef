// Package config 为 rediskit 提供连接选项包的加载能力。
//
// 支持多源加载，基于 Viper 实现：
//   - YAML/JSON 配置文件
//   - .env 文件（godotenv）
//   - 带前缀的环境变量（最高优先级）
//
// 加载出的选项包（map[string]any）可直接交给 client.Create。
//
// 基本使用：
//
//	loader, _ := config.New(&config.Config{
//	    Name:  "rediskit",
//	    Paths: []string{".", "./config"},
//	})
//	if err := loader.Load(ctx); err != nil {
//	    panic(err)
//	}
//	opts := loader.Options("redis")
//	handle, err := client.Create(opts)
package config

import (
	"context"
	"strings"
	"time"
)

// Config 加载器配置
type Config struct {
	Name      string   // 配置文件名称（不含扩展名，默认 "config"）
	Paths     []string // 配置文件搜索路径，默认 ["."]
	FileType  string   // 配置文件类型（默认 "yaml"）
	EnvPrefix string   // 环境变量前缀，默认 "REDISKIT"
}

// validate 设置默认值并验证配置
func (c *Config) validate() error {
	if c.Name == "" {
		c.Name = "config"
	}
	if c.Paths == nil {
		c.Paths = []string{"."}
	}
	if c.FileType == "" {
		c.FileType = "yaml"
	}
	if c.EnvPrefix == "" {
		c.EnvPrefix = "REDISKIT"
	}
	c.EnvPrefix = strings.ToUpper(c.EnvPrefix)
	return nil
}

// Loader 定义配置加载器的核心行为
type Loader interface {
	// Load 加载配置并初始化内部状态
	Load(ctx context.Context) error

	// Get 获取原始配置值
	Get(key string) any

	// Options 提取指定 key 下的选项包；key 为空时返回全部配置
	Options(key string) map[string]any

	// Unmarshal 将整个配置反序列化到结构体
	Unmarshal(v any) error

	// UnmarshalKey 将指定 Key 的配置反序列化到结构体
	UnmarshalKey(key string, v any) error

	// Watch 监听配置变化，通过 context 取消监听
	Watch(ctx context.Context, key string) (<-chan Event, error)
}

// Event 配置变更事件
type Event struct {
	Key       string // 配置 key
	Value     any    // 新值
	OldValue  any    // 旧值
	Timestamp time.Time
}

// New 创建配置加载器。
//
// 如果 cfg 为 nil，使用默认配置。
func New(cfg *Config) (Loader, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return newLoader(cfg), nil
}
