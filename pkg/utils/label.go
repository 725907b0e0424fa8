// Package utils 放置跨包共享的小工具。
package utils

import "strings"

// Label 是挂在候选上的可追踪标记（召回来源、排序模型、打分失败原因等），
// 会原样出现在推荐结果的 labels 字段里。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / feature / rank / rerank
}

// MergeLabel 合并同名 Label：Value 以 '|' 累积，Source 以 ',' 累积，重复值不再追加。
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	merged := existing
	if incoming.Value != "" && !contains(existing.Value, "|", incoming.Value) {
		merged.Value = existing.Value + "|" + incoming.Value
	}
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source != "" && !contains(existing.Source, ",", incoming.Source):
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}

// Values 拆出累积的所有值。
func (l Label) Values() []string {
	if l.Value == "" {
		return nil
	}
	return strings.Split(l.Value, "|")
}

func contains(joined, sep, v string) bool {
	for _, s := range strings.Split(joined, sep) {
		if s == v {
			return true
		}
	}
	return false
}
