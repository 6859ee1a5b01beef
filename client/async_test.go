package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/rediskit/testkit"
)

// TestDefer Future 的基本解析
func TestDefer(t *testing.T) {
	t.Run("resolves value", func(t *testing.T) {
		f := Defer(func() (int, error) { return 42, nil })
		v, err := f.Wait(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	})

	t.Run("resolves error", func(t *testing.T) {
		boom := errors.New("boom")
		f := Defer(func() (string, error) { return "", boom })
		_, err := f.Wait(context.Background())
		assert.ErrorIs(t, err, boom)
	})

	t.Run("result readable many times", func(t *testing.T) {
		f := Defer(func() (int, error) { return 7, nil })
		<-f.Done()
		for i := 0; i < 3; i++ {
			v, err := f.Wait(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 7, v)
		}
	})

	t.Run("wait honors context", func(t *testing.T) {
		block := make(chan struct{})
		f := Defer(func() (int, error) { <-block; return 0, nil })

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := f.Wait(ctx)
		assert.ErrorIs(t, err, context.Canceled)

		close(block)
	})
}

func asyncHandle(t *testing.T) *AsyncClient {
	t.Helper()
	s := testkit.NewServer(t)
	handle, err := Create(testkit.ConnOptions(t, s))
	require.NoError(t, err)
	t.Cleanup(func() { _ = handle.Close() })
	require.NotNil(t, handle.Async())
	return handle.Async()
}

// TestAsyncClientOperations 延迟结果形式的基本操作
func TestAsyncClientOperations(t *testing.T) {
	a := asyncHandle(t)
	ctx, cancel := testkit.NewContext(t, 10*time.Second)
	defer cancel()

	key := "k-" + testkit.NewID()

	// Set -> Get
	_, err := a.Set(ctx, key, "v1", 0).Wait(ctx)
	require.NoError(t, err)

	val, err := a.Get(ctx, key).Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v1", val)

	// Exists / Del
	n, err := a.Exists(ctx, key).Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	deleted, err := a.Del(ctx, key).Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	// 缺失键的 Get 透传外部库的错误
	_, err = a.Get(ctx, key).Wait(ctx)
	assert.ErrorIs(t, err, redis.Nil)
}

// TestAsyncClientCounters 计数与过期
func TestAsyncClientCounters(t *testing.T) {
	a := asyncHandle(t)
	ctx, cancel := testkit.NewContext(t, 10*time.Second)
	defer cancel()

	key := "cnt-" + testkit.NewID()

	n, err := a.Incr(ctx, key).Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	ok, err := a.Expire(ctx, key, time.Minute).Wait(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ttl, err := a.TTL(ctx, key).Wait(ctx)
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

// TestAsyncClientDo 任意命令
func TestAsyncClientDo(t *testing.T) {
	a := asyncHandle(t)
	ctx, cancel := testkit.NewContext(t, 10*time.Second)
	defer cancel()

	res, err := a.Do(ctx, "set", "dk", "dv").Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "OK", res)
}

// TestAsyncPipeline 批量管道的延迟执行
func TestAsyncPipeline(t *testing.T) {
	a := asyncHandle(t)
	ctx, cancel := testkit.NewContext(t, 10*time.Second)
	defer cancel()

	p := a.Pipeline()
	p.Pipeliner().Set(ctx, "p1", "v1", 0)
	p.Pipeliner().Set(ctx, "p2", "v2", 0)
	p.Pipeliner().Get(ctx, "p1")

	cmds, err := p.Exec(ctx).Wait(ctx)
	require.NoError(t, err)
	require.Len(t, cmds, 3)
	assert.Equal(t, "v1", cmds[2].(*redis.StringCmd).Val())
}

// TestAsyncTxPipeline 事务管道
func TestAsyncTxPipeline(t *testing.T) {
	a := asyncHandle(t)
	ctx, cancel := testkit.NewContext(t, 10*time.Second)
	defer cancel()

	p := a.TxPipeline()
	p.Pipeliner().Incr(ctx, "tx")
	p.Pipeliner().Incr(ctx, "tx")

	cmds, err := p.Exec(ctx).Wait(ctx)
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.Equal(t, int64(2), cmds[1].(*redis.IntCmd).Val())
}
