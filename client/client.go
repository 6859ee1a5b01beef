// Package client 为 rediskit 提供连接句柄工厂。
//
// 工厂只做一件事：按 "connection" schema 校验调用方传入的选项包，
// 叠加文档化的默认值，然后经由 go-redis 构造连接句柄。可选地启用
// 延迟结果调用约定，并在口令存在时异步执行认证。协议实现、连接池、
// 重连与数据路径全部归外部客户端库所有，本层不做任何翻译或兜底。
//
// 基本使用：
//
//	handle, err := client.Create(map[string]any{
//	    "host": "127.0.0.1",
//	    "port": 6379,
//	}, client.WithLogger(logger))
//	if err != nil {
//	    panic(err)
//	}
//	defer handle.Close()
//
//	val, err := handle.Client().Get(ctx, "key").Result()
package client

import (
	"context"
	"crypto/tls"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/ceyewan/rediskit/clog"
	"github.com/ceyewan/rediskit/metrics"
	"github.com/ceyewan/rediskit/schema"
)

// Handle 连接句柄
//
// 底层连接的生命周期（建连、重连、关闭）完全由 go-redis 驱动，
// 句柄只在构造时观察它。返回时网络连接可能仍在建立中。
type Handle struct {
	client *redis.Client
	cfg    *Config
	logger clog.Logger
	authc  chan error
	async  *AsyncClient
}

// Create 校验选项、合并默认值并构造连接句柄
//
// 算法：
//  1. 按 "connection" schema 校验 opts，失败立即返回 *ConfigError，不尝试构造
//  2. EffectiveOptions = schema 默认值叠加 opts（opts 优先）
//  3. promisify 为 true 时启用延迟结果调用约定（进程级一次性，幂等）
//  4. 目标解析：url > path（Unix 域套接字）> host+port
//  5. 口令非空时在句柄上异步发起认证，失败经 AuthErrors 通道交付，
//     不阻塞 Create 返回
func Create(opts map[string]any, copts ...Option) (*Handle, error) {
	o := &options{}
	for _, co := range copts {
		co(o)
	}
	o.applyDefaults()

	// 校验必须先于一切构造动作
	res := o.registry.Validate(schema.ConnectionSchema, opts)
	if !res.Valid {
		return nil, &ConfigError{Errors: res.Errors}
	}

	merged := effectiveOptions(o.registry, opts)
	cfg, err := decodeConfig(merged)
	if err != nil {
		return nil, err
	}

	if cfg.Promisify {
		enableAsync(o.logger)
	}

	ropts, cerr := redisOptions(cfg)
	if cerr != nil {
		return nil, cerr
	}

	c := redis.NewClient(ropts)
	logger := o.logger.With(clog.String("addr", ropts.Addr))

	if o.tracing {
		if err := redisotel.InstrumentTracing(c); err != nil {
			logger.Warn("启用追踪埋点失败", clog.Error(err))
		}
	}

	if o.meter != nil {
		collector := metrics.NewPoolStatsCollector(ropts.Addr, c)
		if err := o.meter.Register(collector); err != nil {
			logger.Warn("注册连接池指标失败", clog.Error(err))
		}
	}

	h := &Handle{
		client: c,
		cfg:    cfg,
		logger: logger,
		authc:  make(chan error, 1),
	}
	if cfg.Promisify {
		h.async = &AsyncClient{client: c}
	}

	if cfg.Password != "" {
		go h.probeAuth()
	}

	logger.Debug("连接句柄已构造",
		clog.String("network", ropts.Network),
		clog.Bool("promisify", cfg.Promisify),
	)

	return h, nil
}

// redisOptions 把强类型配置映射到 go-redis 的构造选项
//
// 无法映射的字段（return_buffers、rename_commands 等）保留在 Config 上，
// 与外部库"消费识别的键、忽略其余"的契约一致。
func redisOptions(cfg *Config) (*redis.Options, *ConfigError) {
	var opt *redis.Options

	switch {
	case cfg.URL != "":
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, &ConfigError{Errors: []schema.FieldError{
				{Field: "url", Constraint: "url", Value: cfg.URL},
			}}
		}
		opt = parsed
	case cfg.Path != "":
		opt = &redis.Options{Network: "unix", Addr: cfg.Path}
	default:
		opt = &redis.Options{
			Network: "tcp",
			Addr:    net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		}
	}

	if cfg.Password != "" && opt.Password == "" {
		opt.Password = cfg.Password
	}

	if cfg.ConnectTimeout > 0 {
		opt.DialTimeout = time.Duration(cfg.ConnectTimeout) * time.Millisecond
	}
	if cfg.RetryMaxDelay > 0 {
		opt.MaxRetryBackoff = time.Duration(cfg.RetryMaxDelay) * time.Millisecond
	}
	if cfg.MaxAttempts > 0 {
		opt.MaxRetries = cfg.MaxAttempts
	}
	if !cfg.EnableOfflineQueue {
		// 关闭离线排队：未就绪的命令立即失败，不做内部重试
		opt.MaxRetries = -1
	}

	if opt.Network == "tcp" && cfg.Family == "IPv6" {
		opt.Network = "tcp6"
	}

	if cfg.TLS != nil {
		opt.TLSConfig = tlsConfig(cfg.TLS, cfg.Host)
	}

	if !cfg.SocketKeepalive {
		// 自定义拨号器会替换外部库内建的拨号逻辑，
		// TLS 握手不再由库代劳，必须在这里自行完成
		dialer := &net.Dialer{Timeout: opt.DialTimeout, KeepAlive: -1}
		tlsConf := opt.TLSConfig
		opt.Dialer = func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			if tlsConf == nil {
				return conn, nil
			}
			tconn := tls.Client(conn, tlsConf)
			if err := tconn.HandshakeContext(ctx); err != nil {
				_ = conn.Close()
				return nil, err
			}
			return tconn, nil
		}
	}

	return opt, nil
}

// probeAuth 异步验证认证结果（内部使用）
//
// 口令已随构造选项交给外部库，这里发一条 PING 让认证结果尽早可观察。
// 失败包装为 *AuthError 投入通道；通道带缓冲，投递永不阻塞。
func (h *Handle) probeAuth() {
	timeout := 10 * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := h.client.Ping(ctx).Err(); err != nil {
		h.logger.Warn("认证探测失败", clog.Error(err))
		select {
		case h.authc <- &AuthError{Err: err}:
		default:
		}
		return
	}
	h.logger.Debug("认证探测通过")
}

// Client 返回底层 go-redis 客户端
func (h *Handle) Client() *redis.Client {
	return h.client
}

// Config 返回本次构造使用的完整有效配置
func (h *Handle) Config() *Config {
	return h.cfg
}

// Async 返回延迟结果形式的句柄视图
//
// 仅在 promisify 选项开启时非 nil。
func (h *Handle) Async() *AsyncClient {
	return h.async
}

// AuthErrors 返回异步认证失败的交付通道
//
// 认证被服务器拒绝时通道会收到一个 *AuthError；认证通过则什么都不发。
// 收到错误后是否关闭句柄由调用方决定。
func (h *Handle) AuthErrors() <-chan error {
	return h.authc
}

// PoolStats 返回底层连接池统计
func (h *Handle) PoolStats() *redis.PoolStats {
	return h.client.PoolStats()
}

// Close 关闭底层客户端并释放连接
func (h *Handle) Close() error {
	h.logger.Debug("关闭连接句柄")
	return h.client.Close()
}
