package audit

import (
	"encoding/json"
	"reflect"
	"sort"
	"time"

	"godata/domain"
)

// Mode 变更探测模式
type Mode string

const (
	// ModeChangedOnly 只返回发生变化的属性（廉价路径）
	ModeChangedOnly Mode = "changed_only"
	// ModeFull 返回 {oldData, newData, changedProperties} 完整三元组
	ModeFull Mode = "full"
)

// ChangeSet 完整比较的结果
//
// 字段命名是序列化边界契约的一部分（oldData/newData/changedProperties），
// 审计日志消费方按此解码。
type ChangeSet struct {
	OldData           map[string]any `json:"oldData"`
	NewData           map[string]any `json:"newData"`
	ChangedProperties []string       `json:"changedProperties"`
}

// ChangedOnly 廉价路径：比较当前属性与持久化快照，只返回差异项。
//
// persisted 为 nil（无持久化对应体）时把全部属性视为“已变化”返回。
// 比较只覆盖实体通过 Properties 显式给出的标量/字符串属性；
// 导航与集合属性不参与（由实体的 Properties 实现保证）。
func ChangedOnly(current domain.IPropertyCarrier, persisted map[string]any) map[string]any {
	props := current.Properties()
	if persisted == nil {
		out := make(map[string]any, len(props))
		for k, v := range props {
			out[k] = v
		}
		return out
	}
	out := make(map[string]any)
	for k, v := range props {
		if old, ok := persisted[k]; !ok || !equalValue(old, v) {
			out[k] = v
		}
	}
	return out
}

// FullComparison 完整路径。
//
// persisted 为 nil 时 OldData 为 null、NewData 为当前属性、
// ChangedProperties 为空列表；否则 ChangedProperties 为值不相等的属性名
// （升序排列，保证序列化确定性）。
func FullComparison(current domain.IPropertyCarrier, persisted map[string]any) ChangeSet {
	props := current.Properties()
	cs := ChangeSet{
		NewData:           props,
		ChangedProperties: []string{},
	}
	if persisted == nil {
		return cs
	}
	cs.OldData = persisted
	for k, v := range props {
		if old, ok := persisted[k]; !ok || !equalValue(old, v) {
			cs.ChangedProperties = append(cs.ChangedProperties, k)
		}
	}
	sort.Strings(cs.ChangedProperties)
	return cs
}

// Serialize 输出审计日志用的 JSON 快照。
// map 键按 Go 的 JSON 编码约定升序输出，字段命名确定。
func (c ChangeSet) Serialize() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SerializeChanged 把 changed-only 结果序列化为扁平 key→value JSON。
func SerializeChanged(changes map[string]any) (string, error) {
	data, err := json.Marshal(changes)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// equalValue 按值相等比较两个属性值。
//
// time.Time 用 Equal 比较（忽略单调时钟与时区表示差异）；
// 其余类型走 reflect.DeepEqual，覆盖指针标量与数值的常见情形。
func equalValue(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Equal(tb)
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}
