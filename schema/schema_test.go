package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() Schema {
	return Schema{
		"name":  {Type: TypeString, Pattern: `[a-z]+`, Default: "demo"},
		"count": {Type: TypeInteger, Minimum: intp(1), Maximum: intp(10)},
		"limit": {Type: TypeInteger, Maximum: intp(100), ExclusiveMaximum: true},
		"on":    {Type: TypeBoolean, Default: true},
		"extra": {Type: TypeObject},
	}
}

// TestRegistryValidate 测试通用校验解释器
func TestRegistryValidate(t *testing.T) {
	r := NewRegistry()
	r.Register("test", testSchema())

	tests := []struct {
		name       string
		data       map[string]any
		wantValid  bool
		wantField  string
		constraint string
	}{
		{
			name:      "empty data is valid",
			data:      map[string]any{},
			wantValid: true,
		},
		{
			name:      "all valid",
			data:      map[string]any{"name": "abc", "count": 5, "on": false, "extra": map[string]any{"k": 1}},
			wantValid: true,
		},
		{
			name:       "wrong string type",
			data:       map[string]any{"name": 42},
			wantValid:  false,
			wantField:  "name",
			constraint: "type:string",
		},
		{
			name:       "pattern must fully match",
			data:       map[string]any{"name": "abc123"},
			wantValid:  false,
			wantField:  "name",
			constraint: "pattern:[a-z]+",
		},
		{
			name:       "wrong integer type",
			data:       map[string]any{"count": "five"},
			wantValid:  false,
			wantField:  "count",
			constraint: "type:integer",
		},
		{
			name:       "fractional float is not an integer",
			data:       map[string]any{"count": 1.5},
			wantValid:  false,
			wantField:  "count",
			constraint: "type:integer",
		},
		{
			name:      "integral float accepted",
			data:      map[string]any{"count": float64(3)},
			wantValid: true,
		},
		{
			name:      "minimum is inclusive",
			data:      map[string]any{"count": 1},
			wantValid: true,
		},
		{
			name:      "maximum is inclusive",
			data:      map[string]any{"count": 10},
			wantValid: true,
		},
		{
			name:       "below minimum",
			data:       map[string]any{"count": 0},
			wantValid:  false,
			wantField:  "count",
			constraint: "minimum:1",
		},
		{
			name:       "above maximum",
			data:       map[string]any{"count": 11},
			wantValid:  false,
			wantField:  "count",
			constraint: "maximum:10",
		},
		{
			name:       "exclusive maximum rejects boundary",
			data:       map[string]any{"limit": 100},
			wantValid:  false,
			wantField:  "limit",
			constraint: "exclusiveMaximum:100",
		},
		{
			name:      "exclusive maximum below boundary",
			data:      map[string]any{"limit": 99},
			wantValid: true,
		},
		{
			name:       "wrong boolean type",
			data:       map[string]any{"on": "yes"},
			wantValid:  false,
			wantField:  "on",
			constraint: "type:boolean",
		},
		{
			name:       "object rejects scalar",
			data:       map[string]any{"extra": 3},
			wantValid:  false,
			wantField:  "extra",
			constraint: "type:object",
		},
		{
			name:      "object accepts any map",
			data:      map[string]any{"extra": map[string]string{"a": "b"}},
			wantValid: true,
		},
		{
			name:      "unknown keys pass through",
			data:      map[string]any{"unknown": struct{}{}},
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Validate("test", tt.data)
			assert.Equal(t, tt.wantValid, res.Valid)
			if tt.wantValid {
				assert.Empty(t, res.Errors)
			} else {
				require.Len(t, res.Errors, 1)
				assert.Equal(t, tt.wantField, res.Errors[0].Field)
				assert.Equal(t, tt.constraint, res.Errors[0].Constraint)
			}
		})
	}
}

// TestValidateCollectsAllErrors 校验应汇总所有字段错误，而非只报第一个
func TestValidateCollectsAllErrors(t *testing.T) {
	r := NewRegistry()
	r.Register("test", testSchema())

	res := r.Validate("test", map[string]any{
		"name":  7,
		"count": 999,
		"on":    "nope",
	})
	require.False(t, res.Valid)
	assert.Len(t, res.Errors, 3)

	fields := make(map[string]bool)
	for _, fe := range res.Errors {
		fields[fe.Field] = true
		assert.NotEmpty(t, fe.Error())
	}
	assert.True(t, fields["name"] && fields["count"] && fields["on"])
}

// TestValidateDoesNotMutate 校验不得修改输入
func TestValidateDoesNotMutate(t *testing.T) {
	r := NewRegistry()
	r.Register("test", testSchema())

	data := map[string]any{"name": "abc", "count": 5}
	_ = r.Validate("test", data)
	assert.Equal(t, map[string]any{"name": "abc", "count": 5}, data)
}

// TestDefaults 默认值应为全新拷贝，且只含声明了默认值的字段
func TestDefaults(t *testing.T) {
	r := NewRegistry()
	r.Register("test", testSchema())

	d1 := r.Defaults("test")
	assert.Equal(t, map[string]any{"name": "demo", "on": true}, d1)

	// 修改返回值不得影响后续调用
	d1["name"] = "mutated"
	d1["count"] = 42
	d2 := r.Defaults("test")
	assert.Equal(t, map[string]any{"name": "demo", "on": true}, d2)
}

// TestUnregisteredSchemaPanics 未注册的 schema 名属于编程错误
func TestUnregisteredSchemaPanics(t *testing.T) {
	r := NewRegistry()

	assert.Panics(t, func() { r.Validate("missing", nil) })
	assert.Panics(t, func() { r.Defaults("missing") })
	assert.Panics(t, func() { r.Describe("missing") })
}

// TestPanicReleasesLock panic 被 recover 后注册表不得遗留读锁
//
// Validate/Defaults 对未注册名 panic 时必须释放读锁，
// 否则后续 Register 的写锁会永久阻塞。
func TestPanicReleasesLock(t *testing.T) {
	r := NewRegistry()

	assert.Panics(t, func() { r.Validate("missing", nil) })
	assert.Panics(t, func() { r.Defaults("missing") })

	done := make(chan struct{})
	go func() {
		r.Register("test", testSchema())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Register 被遗留的读锁阻塞")
	}

	assert.True(t, r.Validate("test", map[string]any{"name": "abc"}).Valid)
}

// TestRegisterBadPatternPanics 非法正则在注册时即失败
func TestRegisterBadPatternPanics(t *testing.T) {
	r := NewRegistry()
	assert.Panics(t, func() {
		r.Register("bad", Schema{"x": {Type: TypeString, Pattern: `([`}})
	})
}
