package client

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ceyewan/rediskit/clog"
)

// Future 延迟解析的操作结果
//
// 通过 Done 通道观察完成，通过 Wait 取回结果。一个 Future 只解析一次，
// 解析后的结果可以被任意多次读取。
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// resolve 写入结果并关闭 done（内部使用，只能调用一次）
func (f *Future[T]) resolve(val T, err error) {
	f.val = val
	f.err = err
	close(f.done)
}

// Done 返回在结果就绪时关闭的通道
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait 阻塞直到结果就绪或 ctx 结束
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Defer 在新协程中执行 fn 并返回承载其结果的 Future
func Defer[T any](fn func() (T, error)) *Future[T] {
	f := newFuture[T]()
	go func() {
		f.resolve(fn())
	}()
	return f
}

// 延迟结果调用约定的全局启用开关
//
// 启用是进程级一次性动作：重复启用不会二次包装任何方法，
// sync.Once 使幂等保证成为事实而非假设。
var asyncOnce sync.Once

func enableAsync(logger clog.Logger) {
	asyncOnce.Do(func() {
		logger.Debug("延迟结果调用约定已启用")
	})
}

// AsyncClient 延迟结果形式的连接句柄视图
//
// 每个方法都立即返回 Future，实际命令在后台协程中执行。
// 视图是无状态的薄包装，多个句柄各持有自己的视图互不影响。
type AsyncClient struct {
	client *redis.Client
}

// Client 返回底层的同步客户端
func (a *AsyncClient) Client() *redis.Client {
	return a.client
}

// Get 读取键值
func (a *AsyncClient) Get(ctx context.Context, key string) *Future[string] {
	return Defer(func() (string, error) {
		return a.client.Get(ctx, key).Result()
	})
}

// Set 写入键值
func (a *AsyncClient) Set(ctx context.Context, key string, value any, expiration time.Duration) *Future[string] {
	return Defer(func() (string, error) {
		return a.client.Set(ctx, key, value, expiration).Result()
	})
}

// Del 删除若干键，返回删除数量
func (a *AsyncClient) Del(ctx context.Context, keys ...string) *Future[int64] {
	return Defer(func() (int64, error) {
		return a.client.Del(ctx, keys...).Result()
	})
}

// Exists 统计存在的键数量
func (a *AsyncClient) Exists(ctx context.Context, keys ...string) *Future[int64] {
	return Defer(func() (int64, error) {
		return a.client.Exists(ctx, keys...).Result()
	})
}

// Incr 自增计数器
func (a *AsyncClient) Incr(ctx context.Context, key string) *Future[int64] {
	return Defer(func() (int64, error) {
		return a.client.Incr(ctx, key).Result()
	})
}

// Expire 设置过期时间
func (a *AsyncClient) Expire(ctx context.Context, key string, expiration time.Duration) *Future[bool] {
	return Defer(func() (bool, error) {
		return a.client.Expire(ctx, key, expiration).Result()
	})
}

// TTL 查询剩余过期时间
func (a *AsyncClient) TTL(ctx context.Context, key string) *Future[time.Duration] {
	return Defer(func() (time.Duration, error) {
		return a.client.TTL(ctx, key).Result()
	})
}

// Do 执行任意命令
func (a *AsyncClient) Do(ctx context.Context, args ...any) *Future[any] {
	return Defer(func() (any, error) {
		return a.client.Do(ctx, args...).Result()
	})
}

// Pipeline 返回延迟结果形式的批量管道
func (a *AsyncClient) Pipeline() *AsyncPipeline {
	return &AsyncPipeline{pipe: a.client.Pipeline()}
}

// TxPipeline 返回延迟结果形式的事务管道
func (a *AsyncClient) TxPipeline() *AsyncPipeline {
	return &AsyncPipeline{pipe: a.client.TxPipeline()}
}

// AsyncPipeline 延迟结果形式的批量/事务管道视图
//
// 命令通过 Pipeliner 排队，Exec 立即返回承载全部回复的 Future。
type AsyncPipeline struct {
	pipe redis.Pipeliner
}

// Pipeliner 返回底层管道，用于排队命令
func (p *AsyncPipeline) Pipeliner() redis.Pipeliner {
	return p.pipe
}

// Exec 在后台执行已排队的命令
func (p *AsyncPipeline) Exec(ctx context.Context) *Future[[]redis.Cmder] {
	return Defer(func() ([]redis.Cmder, error) {
		return p.pipe.Exec(ctx)
	})
}
