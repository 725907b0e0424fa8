package filter

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
)

// DefaultBlacklistKey 运营屏蔽名单在 Store 中的默认 key。
const DefaultBlacklistKey = "blacklist:shops"

// Blacklist 是运营侧维护的店铺屏蔽名单（停业、违规等），
// 内存列表和 Store 中的 JSON 数组（[1,2,3]）取并集。
type Blacklist struct {
	// ShopIDs 是内存中的屏蔽店铺 ID
	ShopIDs []int64

	// Store 用于从存储中读取屏蔽名单（可选）
	Store core.Store

	// Key 是 Store 中的名单 key，为空时使用 DefaultBlacklistKey
	Key string
}

// Fetch 返回当前屏蔽名单。Store 中没有名单不算错误。
func (b *Blacklist) Fetch(ctx context.Context) ([]int64, error) {
	if b == nil {
		return nil, nil
	}
	out := append([]int64(nil), b.ShopIDs...)
	if b.Store == nil {
		return out, nil
	}
	key := b.Key
	if key == "" {
		key = DefaultBlacklistKey
	}
	data, err := b.Store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, core.ErrStoreNotFound) {
			return out, nil
		}
		return out, fmt.Errorf("get blacklist %s: %w", key, err)
	}
	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return out, fmt.Errorf("decode blacklist %s: %w", key, err)
	}
	return append(out, ids...), nil
}
