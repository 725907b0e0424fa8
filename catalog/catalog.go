// Package catalog 负责目录（店铺/菜单/优惠券）的加载与索引。
//
// 目录按快照整体加载，构建出的 Index 在两次重载之间只读；
// 重载采用写时复制（先在旁边构建完整的新索引，再原子替换指针），
// 正在处理的请求永远看不到半成品索引。
package catalog

import "github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"

// Catalog 是一个已解析的目录快照。
type Catalog struct {
	Version string
	Shops   []core.Shop
	Menus   []core.Menu
	Coupons []core.Coupon
}

// LoadReport 记录解析时被跳过的记录，单条坏数据不会中断整体加载。
type LoadReport struct {
	Version        string `json:"version"`
	Shops          int    `json:"shops"`
	Menus          int    `json:"menus"`
	Coupons        int    `json:"coupons"`
	SkippedShops   int    `json:"skipped_shops"`
	SkippedMenus   int    `json:"skipped_menus"`
	OrphanMenus    int    `json:"orphan_menus"`
	SkippedCoupons int    `json:"skipped_coupons"`
}
