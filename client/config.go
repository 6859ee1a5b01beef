package client

import (
	"crypto/tls"

	"github.com/go-viper/mapstructure/v2"

	"github.com/ceyewan/rediskit/schema"
	"github.com/ceyewan/rediskit/xerrors"
)

// Config 连接选项的强类型视图
//
// 由 EffectiveOptions（schema 默认值叠加调用方输入）解码而来。
// 部分字段在 go-redis 中没有对应旋钮（ReturnBuffers、RenameCommands 等），
// 它们通过 Handle.Config() 暴露，由调用方在命令层自行应用。
type Config struct {
	Host                     string            `mapstructure:"host"`                       // 服务器主机 (默认: "127.0.0.1")
	Port                     int               `mapstructure:"port"`                       // 服务器端口 (默认: 6379)
	Path                     string            `mapstructure:"path"`                       // [可选] Unix 域套接字路径
	URL                      string            `mapstructure:"url"`                        // [可选] 完整连接 URL，优先级最高
	Parser                   string            `mapstructure:"parser"`                     // [兼容] 解析器名称，不生效
	StringNumbers            bool              `mapstructure:"string_numbers"`             // 数值回复返回字符串
	ReturnBuffers            bool              `mapstructure:"return_buffers"`             // 原始字节回复 (默认: false)
	DetectBuffers            bool              `mapstructure:"detect_buffers"`             // 按入参决定回复形式 (默认: false)
	SocketKeepalive          bool              `mapstructure:"socket_keepalive"`           // 套接字 keep-alive (默认: true)
	NoReadyCheck             bool              `mapstructure:"no_ready_check"`             // 跳过就绪探测 (默认: false)
	EnableOfflineQueue       bool              `mapstructure:"enable_offline_queue"`       // 未就绪时排队命令 (默认: true)
	ConnectTimeout           int               `mapstructure:"connect_timeout"`            // 连接超时，毫秒 (默认: 3600000)
	RetryMaxDelay            int               `mapstructure:"retry_max_delay"`            // [可选] 重连退避上限，毫秒
	MaxAttempts              int               `mapstructure:"max_attempts"`               // 最大重试次数，0 不限制 (默认: 0)
	RetryUnfulfilledCommands bool              `mapstructure:"retry_unfulfilled_commands"` // 重连后重放中断命令 (默认: false)
	Password                 string            `mapstructure:"password"`                   // [可选] 认证口令
	Family                   string            `mapstructure:"family"`                     // 地址族 IPv4|IPv6 (默认: "IPv4")
	DisableResubscribing     bool              `mapstructure:"disable_resubscribing"`      // 禁止重连后恢复订阅 (默认: false)
	RenameCommands           map[string]string `mapstructure:"rename_commands"`            // [可选] 命令重命名映射
	TLS                      map[string]any    `mapstructure:"tls"`                        // [可选] TLS 选项映射
	Prefix                   string            `mapstructure:"prefix"`                     // [可选] 键前缀
	Promisify                bool              `mapstructure:"promisify"`                  // 延迟结果调用约定 (默认: true)
}

// effectiveOptions 用 schema 默认值叠加调用方输入（输入优先）
//
// opts 中的每个键都会透传，包括 schema 未声明的键。输入不会被修改。
func effectiveOptions(reg *schema.Registry, opts map[string]any) map[string]any {
	merged := reg.Defaults(schema.ConnectionSchema)
	for k, v := range opts {
		merged[k] = v
	}
	return merged
}

// decodeConfig 将 EffectiveOptions 解码为强类型 Config
//
// 未声明的键被忽略（它们仍然保留在 EffectiveOptions 里透传给外部库）。
func decodeConfig(merged map[string]any) (*Config, error) {
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, xerrors.Wrap(err, "client: create decoder")
	}
	if err := dec.Decode(merged); err != nil {
		return nil, xerrors.Wrap(err, "client: decode effective options")
	}
	return &cfg, nil
}

// tlsConfig 从选项映射构造 *tls.Config
//
// 识别 server_name 与 insecure_skip_verify 两个键，其余键忽略；
// ServerName 缺省时回落到连接主机名。
func tlsConfig(m map[string]any, fallbackServerName string) *tls.Config {
	tc := &tls.Config{
		MinVersion: tls.VersionTLS12,
		ServerName: fallbackServerName,
	}
	if v, ok := m["server_name"].(string); ok && v != "" {
		tc.ServerName = v
	}
	if v, ok := m["insecure_skip_verify"].(bool); ok {
		tc.InsecureSkipVerify = v
	}
	return tc
}
