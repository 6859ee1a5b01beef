package client

import (
	"github.com/ceyewan/rediskit/config"
)

// CreateFromLoader 从配置加载器中取出选项包并构造句柄
//
// key 指向配置文件中的连接选项段（如 "redis"），为空时使用整个配置。
// 加载器必须已经 Load 过。
func CreateFromLoader(l config.Loader, key string, copts ...Option) (*Handle, error) {
	return Create(l.Options(key), copts...)
}
