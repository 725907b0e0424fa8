package recall

import "github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"

// Merge 按 shop_id 去重，保留第一次出现的候选作为规范记录。
//
// 重复出现时：来源漏斗追加到 FunnelSources（去重）；四个分数字段取并集，
// 规范记录已有的字段保持不变，缺失的字段从后来者复制。
// 输出保持发现顺序。对已去重的输入再次 Merge 结果不变。
func Merge(all []*core.Candidate) []*core.Candidate {
	seen := make(map[int64]*core.Candidate, len(all))
	out := make([]*core.Candidate, 0, len(all))
	for _, c := range all {
		if c == nil {
			continue
		}
		canon, ok := seen[c.ShopID]
		if !ok {
			seen[c.ShopID] = c
			out = append(out, c)
			continue
		}
		if canon == c {
			continue
		}
		for _, s := range c.FunnelSources {
			canon.AddSource(s)
		}
		for i := 0; i < core.NumScores; i++ {
			dst, src := canon.ScoreField(i), *c.ScoreField(i)
			if *dst == nil && src != nil {
				v := *src
				*dst = &v
			}
		}
		if canon.Reason == "" {
			canon.Reason = c.Reason
		}
		for k, v := range c.Labels {
			canon.PutLabel(k, v)
		}
	}
	return out
}
