// Package conv 提供宽松的类型转换工具，主要用于解析字段不规整的目录快照
// （YAML/JSON 解析后得到的 map[string]any）。
package conv

import (
	"strconv"
	"strings"
)

// ToFloat64 将 any 转为 float64。
// 支持各类数值、bool（1.0/0.0）以及数字字符串（允许千分位逗号，如 "7,000"）。
func ToFloat64(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case bool:
		if val {
			return 1.0, true
		}
		return 0.0, true
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(val), ",", "")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ToInt 将 any 转为 int（截断小数）。
func ToInt(v any) (int, bool) {
	f, ok := ToFloat64(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// ToInt64 将 any 转为 int64（截断小数）。
func ToInt64(v any) (int64, bool) {
	f, ok := ToFloat64(v)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

// ToString 将 any 转为 string。数值按最短形式格式化。
func ToString(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case int, int64, int32, float64, float32:
		f, _ := ToFloat64(val)
		return strconv.FormatFloat(f, 'f', -1, 64), true
	default:
		return "", false
	}
}

// ToBool 将 any 转为 bool。
// 支持 bool、数值（非 0 为 true）以及 "true"/"y"/"yes"/"1"/"o" 等常见写法。
func ToBool(v any) (bool, bool) {
	switch val := v.(type) {
	case nil:
		return false, false
	case bool:
		return val, true
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "t", "y", "yes", "1", "o":
			return true, true
		case "false", "f", "n", "no", "0", "x":
			return false, true
		default:
			return false, false
		}
	default:
		f, ok := ToFloat64(val)
		if !ok {
			return false, false
		}
		return f != 0, true
	}
}

// TypeAssert 对 v 做类型断言为 T，等价于 v.(T) 的 (val, ok) 形式。
func TypeAssert[T any](v any) (T, bool) {
	t, ok := v.(T)
	return t, ok
}

// ConvertSlice 将 []T 按 convert 转为 []U，convert 返回 false 的元素被跳过。
func ConvertSlice[T, U any](s []T, convert func(T) (U, bool)) []U {
	if s == nil {
		return nil
	}
	out := make([]U, 0, len(s))
	for _, v := range s {
		if u, ok := convert(v); ok {
			out = append(out, u)
		}
	}
	return out
}

// SliceAny 将 []any 以外的切片统一视为 nil；便于对解析结果做 range。
func SliceAny(v any) []any {
	raw, _ := v.([]any)
	return raw
}

// MapAny 兼容 yaml.v3 与 JSON 解析出的 map 类型。
func MapAny(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := ToString(k)
			if !ok {
				continue
			}
			out[ks] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// First 按顺序查找第一个存在的 key（兼容不同命名的字段，如 shop_id / shopId）。
func First(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}
