package catalog

import "context"

type indexKey struct{}

// WithIndex 把一次请求使用的索引快照固定在 ctx 上，
// 同一请求内的所有漏斗与特征构建看到的是同一个版本。
func WithIndex(ctx context.Context, idx *Index) context.Context {
	return context.WithValue(ctx, indexKey{}, idx)
}

// IndexFrom 取出 ctx 上固定的索引，没有时返回 nil。
func IndexFrom(ctx context.Context) *Index {
	idx, _ := ctx.Value(indexKey{}).(*Index)
	return idx
}

// Provider 提供当前索引。*Holder 实现了该接口。
type Provider interface {
	Current() *Index
}

// Resolve 优先使用 ctx 上固定的索引，否则取 p 的当前索引。
func Resolve(ctx context.Context, p Provider) *Index {
	if idx := IndexFrom(ctx); idx != nil {
		return idx
	}
	if p == nil {
		return nil
	}
	return p.Current()
}
