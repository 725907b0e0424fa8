package core

import (
	"math"
	"strings"
	"time"
)

// CouponUsageType 优惠券的使用范围。
type CouponUsageType string

const (
	CouponUsageAll       CouponUsageType = "ALL"
	CouponUsageShop      CouponUsageType = "SHOP"
	CouponUsageCategory  CouponUsageType = "CATEGORY"
	CouponUsageFoodcard  CouponUsageType = "FOODCARD"
	CouponUsageGoodShop  CouponUsageType = "GOOD_SHOP"
	CouponUsageEmergency CouponUsageType = "EMERGENCY"
)

// ParseCouponUsageType 不区分大小写解析，未知值返回 ALL。
func ParseCouponUsageType(s string) CouponUsageType {
	switch t := CouponUsageType(strings.ToUpper(strings.TrimSpace(s))); t {
	case CouponUsageShop, CouponUsageCategory, CouponUsageFoodcard,
		CouponUsageGoodShop, CouponUsageEmergency:
		return t
	default:
		return CouponUsageAll
	}
}

// Coupon 优惠券。Amount（定额）优先于 Rate（折扣率）。
type Coupon struct {
	ID             int64
	Name           string
	Amount         int
	Rate           float64 // 0-1
	MinOrder       int
	UsageType      CouponUsageType
	TargetShopIDs  []int64
	TargetCategory string
	ValidFrom      *time.Time
	ValidUntil     *time.Time
}

// CalculateDiscount 计算 price 可抵扣的金额，结果落在 [0, price]。
func (c *Coupon) CalculateDiscount(price int) int {
	if price <= 0 {
		return 0
	}
	if c.MinOrder > 0 && price < c.MinOrder {
		return 0
	}
	var discount int
	switch {
	case c.Amount > 0:
		discount = c.Amount
	case c.Rate > 0:
		discount = int(math.Floor(float64(price) * c.Rate))
	}
	if discount < 0 {
		return 0
	}
	if discount > price {
		return price
	}
	return discount
}

// ValidAt 判断 at 是否在有效期内（缺失的边界视为不限）。
func (c *Coupon) ValidAt(at time.Time) bool {
	if c.ValidFrom != nil && at.Before(*c.ValidFrom) {
		return false
	}
	if c.ValidUntil != nil && at.After(*c.ValidUntil) {
		return false
	}
	return true
}

// AppliesTo 判断优惠券在 at 时刻是否可用于 shop。
func (c *Coupon) AppliesTo(shop *Shop, at time.Time) bool {
	if shop == nil || !c.ValidAt(at) {
		return false
	}
	switch c.UsageType {
	case CouponUsageShop:
		for _, id := range c.TargetShopIDs {
			if id == shop.ID {
				return true
			}
		}
		return false
	case CouponUsageCategory:
		return c.TargetCategory != "" && strings.Contains(shop.Category, c.TargetCategory)
	case CouponUsageFoodcard:
		return shop.FoodcardAccepted()
	case CouponUsageGoodShop:
		return shop.GoodInfluence
	default:
		// ALL / EMERGENCY 面向全部店铺；若指定了目标店铺则只限目标
		if len(c.TargetShopIDs) == 0 {
			return true
		}
		for _, id := range c.TargetShopIDs {
			if id == shop.ID {
				return true
			}
		}
		return false
	}
}
