package schema

// ConnectionSchema 是连接选项 schema 的注册名
const ConnectionSchema = "connection"

// 主机名约束：IPv4 字面量或 "localhost"
const hostPattern = `((25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)|localhost`

func init() {
	defaultRegistry.Register(ConnectionSchema, Connection())
}

// Connection 返回连接选项 schema 的一份全新拷贝
//
// 这张表是模块唯一公开入口的线上契约：字段、约束、默认值与文档一一对应。
// 部分字段（parser、return_buffers 等）在 Go 绑定下没有对应的客户端旋钮，
// 仍然接受并校验，随 EffectiveOptions 透传，由调用方或外部库自行消费。
func Connection() Schema {
	return Schema{
		"host": {
			Type:        TypeString,
			Pattern:     hostPattern,
			Default:     "127.0.0.1",
			Description: "服务器主机，IPv4 字面量或 localhost",
		},
		"port": {
			Type:        TypeInteger,
			Minimum:     intp(0),
			Maximum:     intp(65535),
			Default:     6379,
			Description: "服务器端口",
		},
		"path": {
			Type:        TypeString,
			Pattern:     `/.*`,
			Description: "Unix 域套接字路径（绝对路径），优先级高于 host/port",
		},
		"url": {
			Type:        TypeString,
			Description: "完整连接 URL，优先级最高",
		},
		"parser": {
			Type:        TypeString,
			Description: "协议解析器名称，Go 绑定下由客户端库自行决定，仅作兼容接受",
		},
		"string_numbers": {
			Type:        TypeBoolean,
			Description: "以字符串形式返回数值回复，由客户端库的命令层消费",
		},
		"return_buffers": {
			Type:        TypeBoolean,
			Default:     false,
			Description: "以原始字节形式返回回复",
		},
		"detect_buffers": {
			Type:        TypeBoolean,
			Default:     false,
			Description: "按单条命令的入参类型决定回复形式",
		},
		"socket_keepalive": {
			Type:        TypeBoolean,
			Default:     true,
			Description: "是否在底层套接字上启用 keep-alive",
		},
		"no_ready_check": {
			Type:        TypeBoolean,
			Default:     false,
			Description: "跳过连接建立后的就绪探测",
		},
		"enable_offline_queue": {
			Type:        TypeBoolean,
			Default:     true,
			Description: "连接未就绪时是否排队命令；关闭后未就绪的命令立即失败",
		},
		"connect_timeout": {
			Type:        TypeInteger,
			Minimum:     intp(0),
			Default:     3600000,
			Description: "连接超时（毫秒）",
		},
		"retry_max_delay": {
			Type:        TypeInteger,
			Minimum:     intp(0),
			Description: "重连退避的最大延迟（毫秒）",
		},
		"max_attempts": {
			Type:        TypeInteger,
			Minimum:     intp(0),
			Default:     0,
			Description: "最大重试次数，0 表示不限制",
		},
		"retry_unfulfilled_commands": {
			Type:        TypeBoolean,
			Default:     false,
			Description: "重连后是否重放中断的命令",
		},
		"password": {
			Type:        TypeString,
			Description: "认证口令，非空时在句柄构造后异步执行认证",
		},
		"family": {
			Type:        TypeString,
			Pattern:     `IPv4|IPv6`,
			Default:     "IPv4",
			Description: "地址族",
		},
		"disable_resubscribing": {
			Type:        TypeBoolean,
			Default:     false,
			Description: "重连后是否禁止自动恢复订阅",
		},
		"rename_commands": {
			Type:        TypeObject,
			Description: "命令重命名映射",
		},
		"tls": {
			Type:        TypeObject,
			Description: "TLS 选项映射，非空时以 TLS 建连",
		},
		"prefix": {
			Type:        TypeString,
			Description: "所有键的统一前缀",
		},
		"promisify": {
			Type:        TypeBoolean,
			Default:     true,
			Description: "启用延迟结果调用约定；仅工厂消费，不透传给服务器",
		},
	}
}
