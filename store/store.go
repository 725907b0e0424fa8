// Package store 提供 core.Store 的实现（内存 / Redis），目前用于保存目录快照。
//
// 示例：
//
//	var s core.Store = store.NewMemoryStore()
//	s.Set(ctx, "catalog:version", []byte("20240101"), 0)
package store

import "github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"

// ErrNotFound 与 core.ErrStoreNotFound 相同，方便包内使用。
var ErrNotFound = core.ErrStoreNotFound
