package testkit

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// NewServer 启动一个进程内 Redis 测试服务器
// 测试结束时自动关闭
func NewServer(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	return miniredis.RunT(t)
}

// ConnOptions 返回指向测试服务器的连接选项包
func ConnOptions(t *testing.T, s *miniredis.Miniredis) map[string]any {
	t.Helper()
	port, err := strconv.Atoi(s.Port())
	if err != nil {
		t.Fatalf("failed to parse miniredis port: %v", err)
	}
	return map[string]any{
		"host": s.Host(),
		"port": port,
	}
}

// GetClient 返回指向测试服务器的原生 go-redis 客户端
// 测试结束时自动关闭
func GetClient(t *testing.T, s *miniredis.Miniredis) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("failed to connect to test redis: %v", err)
	}
	return client
}
