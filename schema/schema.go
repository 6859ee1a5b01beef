// Package schema 为 rediskit 提供声明式的配置 Schema 注册与校验能力。
//
// Schema 是纯数据：每个字段由类型、约束（正则、数值区间）和默认值描述，
// 校验逻辑是对这张表的通用解释器，增删字段不需要改动任何控制流代码。
//
// 基本使用：
//
//	res := schema.Validate(schema.ConnectionSchema, opts)
//	if !res.Valid {
//	    return res.Errors
//	}
//	merged := schema.Defaults(schema.ConnectionSchema)
package schema

import (
	"fmt"
	"reflect"
	"regexp"
	"sync"
)

// FieldType 字段类型
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
	TypeBoolean FieldType = "boolean"
	TypeObject  FieldType = "object"
)

// Field 单个配置字段的描述符
//
// 约束语义：
//   - Pattern 是完整匹配的正则表达式（隐式锚定首尾），仅对 string 生效
//   - Minimum/Maximum 为闭区间边界；ExclusiveMaximum 为 true 时上界开放
//   - TypeObject 接受任意映射值
type Field struct {
	Type             FieldType
	Pattern          string
	Minimum          *int64
	Maximum          *int64
	ExclusiveMaximum bool
	Default          any
	Description      string
}

// Schema 字段名到描述符的映射
type Schema map[string]Field

// FieldError 单个字段的校验错误
type FieldError struct {
	Field      string // 字段名
	Constraint string // 未通过的约束，如 "type:integer"、"maximum:65535"
	Value      any    // 实际收到的值
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("字段 %s 未通过约束 %s（实际值: %v）", e.Field, e.Constraint, e.Value)
}

// Result 一次校验的结果
type Result struct {
	Valid  bool
	Errors []FieldError
}

// Registry 持有若干命名 Schema，提供校验与默认值操作
//
// Schema 在注册后不可变，所有操作均为并发安全的只读访问。
type Registry struct {
	mu       sync.RWMutex
	schemas  map[string]Schema
	patterns map[string]map[string]*regexp.Regexp // 预编译的完整匹配正则
}

// NewRegistry 创建空的 Schema 注册表
func NewRegistry() *Registry {
	return &Registry{
		schemas:  make(map[string]Schema),
		patterns: make(map[string]map[string]*regexp.Regexp),
	}
}

// Register 注册命名 Schema
//
// 正则约束在注册时预编译为完整匹配形式；非法正则属于编程错误，直接 panic。
func (r *Registry) Register(name string, s Schema) {
	r.mu.Lock()
	defer r.mu.Unlock()

	compiled := make(map[string]*regexp.Regexp)
	for field, desc := range s {
		if desc.Pattern == "" {
			continue
		}
		re, err := regexp.Compile(`\A(?:` + desc.Pattern + `)\z`)
		if err != nil {
			panic(fmt.Sprintf("schema: 字段 %s.%s 的正则非法: %v", name, field, err))
		}
		compiled[field] = re
	}

	r.schemas[name] = s
	r.patterns[name] = compiled
}

// Validate 按命名 Schema 校验数据
//
// 仅检查 data 中出现的键：类型必须与声明一致，且满足正则或区间约束。
// Schema 未声明的键原样放行（后续合并会将其透传）。data 不会被修改。
//
// name 未注册属于编程错误，直接 panic。
func (r *Registry) Validate(name string, data map[string]any) Result {
	s, patterns := r.snapshot(name)

	var errs []FieldError
	for key, value := range data {
		desc, ok := s[key]
		if !ok {
			// 未知键透传，不拒绝
			continue
		}
		if fe := checkField(key, value, desc, patterns[key]); fe != nil {
			errs = append(errs, *fe)
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// Defaults 返回命名 Schema 中所有已声明默认值的全新拷贝
//
// 未声明默认值的字段不会出现在结果中。name 未注册属于编程错误，直接 panic。
func (r *Registry) Defaults(name string) map[string]any {
	s, _ := r.snapshot(name)

	out := make(map[string]any, len(s))
	for key, desc := range s {
		if desc.Default != nil {
			out[key] = desc.Default
		}
	}
	return out
}

// Describe 返回命名 Schema 本身（只读视图，调用方不得修改）
func (r *Registry) Describe(name string) Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mustSchema(name)
}

// snapshot 在读锁内取出命名 Schema 与预编译正则
//
// 解锁必须 defer：mustSchema 对未注册名会 panic，若调用方 recover，
// 读锁不能留在持有状态。
func (r *Registry) snapshot(name string) (Schema, map[string]*regexp.Regexp) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mustSchema(name), r.patterns[name]
}

// mustSchema 取出命名 Schema，未注册则 panic（调用方需持有锁）
func (r *Registry) mustSchema(name string) Schema {
	s, ok := r.schemas[name]
	if !ok {
		panic(fmt.Sprintf("schema: 未注册的 schema %q", name))
	}
	return s
}

// checkField 对单个值执行类型与约束检查（内部使用）
func checkField(key string, value any, desc Field, pattern *regexp.Regexp) *FieldError {
	switch desc.Type {
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return &FieldError{Field: key, Constraint: "type:string", Value: value}
		}
		if pattern != nil && !pattern.MatchString(s) {
			return &FieldError{Field: key, Constraint: "pattern:" + desc.Pattern, Value: value}
		}

	case TypeInteger:
		n, ok := toInt64(value)
		if !ok {
			return &FieldError{Field: key, Constraint: "type:integer", Value: value}
		}
		if desc.Minimum != nil && n < *desc.Minimum {
			return &FieldError{Field: key, Constraint: fmt.Sprintf("minimum:%d", *desc.Minimum), Value: value}
		}
		if desc.Maximum != nil {
			if desc.ExclusiveMaximum {
				if n >= *desc.Maximum {
					return &FieldError{Field: key, Constraint: fmt.Sprintf("exclusiveMaximum:%d", *desc.Maximum), Value: value}
				}
			} else if n > *desc.Maximum {
				return &FieldError{Field: key, Constraint: fmt.Sprintf("maximum:%d", *desc.Maximum), Value: value}
			}
		}

	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			return &FieldError{Field: key, Constraint: "type:boolean", Value: value}
		}

	case TypeObject:
		// 任意映射均可接受
		if value == nil || reflect.ValueOf(value).Kind() != reflect.Map {
			return &FieldError{Field: key, Constraint: "type:object", Value: value}
		}

	default:
		return &FieldError{Field: key, Constraint: "type:" + string(desc.Type), Value: value}
	}

	return nil
}

// toInt64 将任意数值类型归一为 int64；浮点数要求为整数值
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > uint64(1<<63-1) {
			return 0, false
		}
		return int64(n), true
	case float32:
		if float32(int64(n)) != n {
			return 0, false
		}
		return int64(n), true
	case float64:
		if float64(int64(n)) != n {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

// intp 构造区间边界（内部使用）
func intp(v int64) *int64 {
	return &v
}

// 默认注册表，进程启动时注册 "connection" schema，之后只读
var defaultRegistry = NewRegistry()

// Default 返回包内默认注册表
func Default() *Registry {
	return defaultRegistry
}

// Validate 在默认注册表上执行校验
func Validate(name string, data map[string]any) Result {
	return defaultRegistry.Validate(name, data)
}

// Defaults 在默认注册表上取默认值
func Defaults(name string) map[string]any {
	return defaultRegistry.Defaults(name)
}
