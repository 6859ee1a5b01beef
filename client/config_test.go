package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/rediskit/schema"
)

// TestEffectiveOptions 默认值叠加调用方输入，输入优先
func TestEffectiveOptions(t *testing.T) {
	reg := schema.Default()

	t.Run("empty input yields defaults", func(t *testing.T) {
		merged := effectiveOptions(reg, nil)
		assert.Equal(t, schema.Defaults(schema.ConnectionSchema), merged)
	})

	t.Run("input wins on collision", func(t *testing.T) {
		merged := effectiveOptions(reg, map[string]any{"port": 6380, "host": "10.0.0.1"})
		assert.Equal(t, 6380, merged["port"])
		assert.Equal(t, "10.0.0.1", merged["host"])
		// 未覆盖的默认值保留
		assert.Equal(t, 3600000, merged["connect_timeout"])
	})

	t.Run("unknown keys carried over", func(t *testing.T) {
		merged := effectiveOptions(reg, map[string]any{"custom": 1})
		assert.Equal(t, 1, merged["custom"])
	})

	t.Run("input is not mutated", func(t *testing.T) {
		opts := map[string]any{"port": 6380}
		_ = effectiveOptions(reg, opts)
		assert.Equal(t, map[string]any{"port": 6380}, opts)
	})
}

// TestDecodeConfig 选项包到强类型配置的解码
func TestDecodeConfig(t *testing.T) {
	t.Run("defaults decode cleanly", func(t *testing.T) {
		cfg, err := decodeConfig(schema.Defaults(schema.ConnectionSchema))
		require.NoError(t, err)

		assert.Equal(t, "127.0.0.1", cfg.Host)
		assert.Equal(t, 6379, cfg.Port)
		assert.True(t, cfg.SocketKeepalive)
		assert.True(t, cfg.EnableOfflineQueue)
		assert.Equal(t, 3600000, cfg.ConnectTimeout)
		assert.Equal(t, "IPv4", cfg.Family)
		assert.True(t, cfg.Promisify)
		assert.Empty(t, cfg.Password)
		assert.Nil(t, cfg.RenameCommands)
		assert.Nil(t, cfg.TLS)
	})

	t.Run("all fields decode", func(t *testing.T) {
		cfg, err := decodeConfig(map[string]any{
			"url":             "redis://127.0.0.1:6379",
			"path":            "/tmp/redis.sock",
			"parser":          "builtin",
			"string_numbers":  true,
			"rename_commands": map[string]any{"KEYS": "HIDDEN"},
			"tls":             map[string]any{"server_name": "example.com"},
			"prefix":          "app:",
			"retry_max_delay": 250,
		})
		require.NoError(t, err)

		assert.Equal(t, "redis://127.0.0.1:6379", cfg.URL)
		assert.Equal(t, "/tmp/redis.sock", cfg.Path)
		assert.Equal(t, "builtin", cfg.Parser)
		assert.True(t, cfg.StringNumbers)
		assert.Equal(t, map[string]string{"KEYS": "HIDDEN"}, cfg.RenameCommands)
		assert.Equal(t, "example.com", cfg.TLS["server_name"])
		assert.Equal(t, "app:", cfg.Prefix)
		assert.Equal(t, 250, cfg.RetryMaxDelay)
	})

	t.Run("unknown keys ignored", func(t *testing.T) {
		cfg, err := decodeConfig(map[string]any{"custom": "x", "port": 6380})
		require.NoError(t, err)
		assert.Equal(t, 6380, cfg.Port)
	})
}

// TestTLSConfig TLS 选项映射
func TestTLSConfig(t *testing.T) {
	t.Run("server name from options", func(t *testing.T) {
		tc := tlsConfig(map[string]any{"server_name": "redis.example.com"}, "127.0.0.1")
		assert.Equal(t, "redis.example.com", tc.ServerName)
		assert.False(t, tc.InsecureSkipVerify)
	})

	t.Run("falls back to host", func(t *testing.T) {
		tc := tlsConfig(map[string]any{}, "127.0.0.1")
		assert.Equal(t, "127.0.0.1", tc.ServerName)
	})

	t.Run("insecure skip verify", func(t *testing.T) {
		tc := tlsConfig(map[string]any{"insecure_skip_verify": true}, "127.0.0.1")
		assert.True(t, tc.InsecureSkipVerify)
	})
}
