package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/pkg/conv"
)

// Decode 把解析后的快照（map 形式）转换为 Catalog。
// 只有顶层结构不合法时返回错误；单条记录缺字段按默认值处理，无法使用的记录跳过并计数。
func Decode(raw any) (*Catalog, *LoadReport, error) {
	root, ok := conv.MapAny(raw)
	if !ok {
		return nil, nil, fmt.Errorf("catalog: snapshot root must be an object, got %T", raw)
	}

	c := &Catalog{}
	report := &LoadReport{}
	if v, ok := conv.First(root, "version", "snapshot_version"); ok {
		c.Version, _ = conv.ToString(v)
	}
	report.Version = c.Version

	shopIDs := make(map[int64]struct{})
	var nested []any
	for _, r := range conv.SliceAny(root["shops"]) {
		m, ok := conv.MapAny(r)
		if !ok {
			report.SkippedShops++
			continue
		}
		shop, ok := decodeShop(m)
		if !ok {
			report.SkippedShops++
			continue
		}
		if _, dup := shopIDs[shop.ID]; dup {
			report.SkippedShops++
			continue
		}
		shopIDs[shop.ID] = struct{}{}
		c.Shops = append(c.Shops, shop)

		// 店铺记录里内嵌的菜单，缺省 shop_id 时归属当前店铺
		for _, mr := range conv.SliceAny(m["menus"]) {
			if mm, ok := conv.MapAny(mr); ok {
				if _, has := conv.First(mm, "shop_id", "shopId"); !has {
					mm["shop_id"] = shop.ID
				}
				nested = append(nested, mm)
				continue
			}
			nested = append(nested, mr)
		}
	}

	menus := append(nested, conv.SliceAny(root["menus"])...)
	for _, r := range menus {
		m, ok := conv.MapAny(r)
		if !ok {
			report.SkippedMenus++
			continue
		}
		menu, ok := decodeMenu(m)
		if !ok {
			report.SkippedMenus++
			continue
		}
		if _, exists := shopIDs[menu.ShopID]; !exists {
			report.OrphanMenus++
			continue
		}
		c.Menus = append(c.Menus, menu)
	}

	for _, r := range conv.SliceAny(root["coupons"]) {
		m, ok := conv.MapAny(r)
		if !ok {
			report.SkippedCoupons++
			continue
		}
		coupon, ok := decodeCoupon(m)
		if !ok {
			report.SkippedCoupons++
			continue
		}
		c.Coupons = append(c.Coupons, coupon)
	}

	report.Shops, report.Menus, report.Coupons = len(c.Shops), len(c.Menus), len(c.Coupons)
	return c, report, nil
}

func decodeShop(m map[string]any) (core.Shop, bool) {
	var s core.Shop
	v, _ := conv.First(m, "id", "shop_id")
	id, ok := conv.ToInt64(v)
	if !ok || id <= 0 {
		return s, false
	}
	s.ID = id
	s.Name = str(m, "name", "shop_name")
	s.RawCategory = str(m, "category")
	s.Category = core.ParseCategory(s.RawCategory)
	s.Address = str(m, "address", "addr")
	s.District = str(m, "district", "gu")
	if s.District == "" {
		s.District = DistrictFromAddress(s.Address)
	}
	s.GoodInfluence = boolean(m, "good_influence", "is_good_influence_shop")
	if v, ok := conv.First(m, "accepts_foodcard", "is_food_card_shop", "foodcard"); ok {
		if b, ok := conv.ToBool(v); ok {
			s.AcceptsFoodcard = &b
		}
	}
	s.Discount = boolean(m, "discount", "has_discount")
	if msg := str(m, "owner_message"); msg != "" {
		s.OwnerMessage = &msg
	}
	if v, ok := conv.First(m, "rating"); ok {
		if f, ok := conv.ToFloat64(v); ok && f >= 0 && f <= 5 {
			s.Rating = &f
		}
	}
	if v, ok := conv.First(m, "review_count", "reviews"); ok {
		if n, ok := conv.ToInt(v); ok && n > 0 {
			s.ReviewCount = n
		}
	}
	s.IsNew = boolean(m, "is_new", "new")
	s.Verified = boolean(m, "verified")

	hours := m
	if hm, ok := conv.MapAny(m["hours"]); ok {
		hours = hm
	}
	s.Hours = core.OperatingHours{
		Open:       clock(hours, "open", "open_hour"),
		Close:      clock(hours, "close", "close_hour"),
		BreakStart: clock(hours, "break_start", "break_start_hour"),
		BreakEnd:   clock(hours, "break_end", "break_end_hour"),
	}
	return s, true
}

func decodeMenu(m map[string]any) (core.Menu, bool) {
	var menu core.Menu
	v, _ := conv.First(m, "id", "menu_id")
	menu.ID, _ = conv.ToInt64(v)
	v, _ = conv.First(m, "shop_id", "shopId")
	shopID, ok := conv.ToInt64(v)
	if !ok || shopID <= 0 {
		return menu, false
	}
	menu.ShopID = shopID
	menu.Name = str(m, "name", "menu_name")
	v, _ = conv.First(m, "price")
	price, ok := conv.ToInt(v)
	if !ok || price < 0 {
		return menu, false
	}
	menu.Price = price
	menu.Category = str(m, "category")
	menu.Popular = boolean(m, "popular", "is_best")
	for _, o := range conv.SliceAny(m["options"]) {
		om, ok := conv.MapAny(o)
		if !ok {
			continue
		}
		opt := core.MenuOption{Name: str(om, "name"), Category: str(om, "category")}
		if v, ok := conv.First(om, "additional_price", "price"); ok {
			opt.AdditionalPrice, _ = conv.ToInt(v)
		}
		if opt.Name != "" {
			menu.Options = append(menu.Options, opt)
		}
	}
	return menu, true
}

func decodeCoupon(m map[string]any) (core.Coupon, bool) {
	var c core.Coupon
	v, _ := conv.First(m, "id", "coupon_id")
	c.ID, _ = conv.ToInt64(v)
	c.Name = str(m, "name")
	if v, ok := conv.First(m, "amount", "discount_amount"); ok {
		c.Amount, _ = conv.ToInt(v)
	}
	if v, ok := conv.First(m, "rate", "discount_rate"); ok {
		if f, ok := conv.ToFloat64(v); ok {
			if f > 1 { // 兼容百分比写法
				f /= 100
			}
			c.Rate = f
		}
	}
	if c.Amount <= 0 && c.Rate <= 0 {
		return c, false
	}
	if v, ok := conv.First(m, "min_order", "min_amount"); ok {
		c.MinOrder, _ = conv.ToInt(v)
	}
	c.UsageType = core.ParseCouponUsageType(str(m, "usage_type"))
	for _, t := range conv.SliceAny(m["target_shops"]) {
		if id, ok := conv.ToInt64(t); ok {
			c.TargetShopIDs = append(c.TargetShopIDs, id)
		}
	}
	c.TargetCategory = str(m, "target_category")
	c.ValidFrom = timestamp(m, "valid_from")
	c.ValidUntil = timestamp(m, "valid_until")
	return c, true
}

// DistrictFromAddress 从地址中取出 "구/군" 级别的行政区，取不到返回空。
func DistrictFromAddress(addr string) string {
	for _, f := range strings.Fields(addr) {
		if strings.HasSuffix(f, "구") || strings.HasSuffix(f, "군") {
			return f
		}
	}
	return ""
}

func str(m map[string]any, keys ...string) string {
	v, ok := conv.First(m, keys...)
	if !ok {
		return ""
	}
	s, _ := conv.ToString(v)
	return strings.TrimSpace(s)
}

func boolean(m map[string]any, keys ...string) bool {
	v, ok := conv.First(m, keys...)
	if !ok {
		return false
	}
	b, _ := conv.ToBool(v)
	return b
}

func clock(m map[string]any, keys ...string) *core.ClockTime {
	s := str(m, keys...)
	if s == "" {
		return nil
	}
	c, err := core.ParseClockTime(s)
	if err != nil {
		return nil
	}
	return &c
}

func timestamp(m map[string]any, keys ...string) *time.Time {
	v, ok := conv.First(m, keys...)
	if !ok {
		return nil
	}
	if t, ok := v.(time.Time); ok { // yaml.v3 会直接解析时间戳
		return &t
	}
	s, _ := conv.ToString(v)
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return &t
		}
	}
	return nil
}
