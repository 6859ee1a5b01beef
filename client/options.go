package client

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ceyewan/rediskit/clog"
	"github.com/ceyewan/rediskit/schema"
)

// Option 配置工厂的选项
type Option func(*options)

// options 选项结构（内部使用）
type options struct {
	logger   clog.Logger
	meter    prometheus.Registerer
	registry *schema.Registry
	tracing  bool
}

// WithLogger 注入日志记录器
// 组件内部会自动追加 Namespace: logger.WithNamespace("client")
func WithLogger(l clog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l.WithNamespace("client")
		}
	}
}

// WithMeter 注入 Prometheus 注册器，工厂会为句柄注册连接池指标采集器
func WithMeter(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.meter = reg
	}
}

// WithTracing 为构造出的客户端启用 OpenTelemetry 追踪埋点
func WithTracing() Option {
	return func(o *options) {
		o.tracing = true
	}
}

// WithRegistry 替换默认的 Schema 注册表（测试或扩展用）
func WithRegistry(r *schema.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}

// applyDefaults 设置选项默认值（内部使用）
func (o *options) applyDefaults() {
	if o.logger == nil {
		o.logger = clog.Discard()
	}
	if o.registry == nil {
		o.registry = schema.Default()
	}
}
