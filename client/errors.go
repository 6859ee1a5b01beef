package client

import (
	"strings"

	"github.com/ceyewan/rediskit/schema"
	"github.com/ceyewan/rediskit/xerrors"
)

// Sentinel Errors - 工厂专用的哨兵错误，附带机器可读错误码
var (
	ErrConfig = xerrors.WithCode(xerrors.New("client: invalid configuration"), "CONFIG_INVALID")
	ErrAuth   = xerrors.WithCode(xerrors.New("client: authentication failed"), "AUTH_FAILED")
)

// ConfigError 配置校验失败
//
// 在任何网络活动之前同步返回，携带每个出错字段的结构化信息。
// 出现此错误时不会构造任何句柄。
type ConfigError struct {
	Errors []schema.FieldError
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("client: 配置校验失败")
	for i := range e.Errors {
		b.WriteString("; ")
		b.WriteString(e.Errors[i].Error())
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error {
	return ErrConfig
}

// Fields 返回所有出错字段名
func (e *ConfigError) Fields() []string {
	out := make([]string, 0, len(e.Errors))
	for i := range e.Errors {
		out = append(out, e.Errors[i].Field)
	}
	return out
}

// AuthError 认证被服务器拒绝
//
// 句柄构造完成后异步产生，通过 Handle.AuthErrors 通道交付，
// 不会阻止句柄返回给调用方；是否关闭句柄由调用方决定。
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return "client: 认证失败: " + e.Err.Error()
}

func (e *AuthError) Unwrap() []error {
	return []error{ErrAuth, e.Err}
}
