package catalog

import (
	"strings"
	"time"

	"github.com/skt-team4/lsj-skt-teamproject-2-sub000/core"
)

// DefaultTimeAffinity 是没有命中任何关键字时的时段亲和分。
const DefaultTimeAffinity = 10

type keywordPoints struct {
	keyword string
	points  float64
}

// 时段 × 类目关键字 的固定分值表（≤30），按顺序取第一个命中。
var timeAffinityTable = map[core.TimeOfDay][]keywordPoints{
	core.Breakfast: {
		{"죽", 30}, {"토스트", 30}, {"샌드위치", 28}, {"베이커리", 25}, {"카페", 25},
		{"김밥", 22}, {"분식", 18}, {"한식", 15},
	},
	core.Lunch: {
		{"한식", 30}, {"국밥", 28}, {"도시락", 26}, {"분식", 25}, {"중식", 25},
		{"일식", 22}, {"패스트푸드", 20}, {"양식", 20}, {"샐러드", 20},
	},
	core.Dinner: {
		{"고기", 30}, {"치킨", 28}, {"한식", 25}, {"중식", 25}, {"일식", 25},
		{"양식", 25}, {"술집", 22}, {"피자", 20},
	},
	core.Snack: {
		{"디저트", 30}, {"카페", 30}, {"베이커리", 25}, {"분식", 25},
		{"치킨", 20}, {"패스트푸드", 20}, {"피자", 18},
	},
}

// TimeAffinity 返回某时段对类目的亲和分，未命中返回 DefaultTimeAffinity。
func TimeAffinity(slot core.TimeOfDay, category string) float64 {
	if category == "" {
		return DefaultTimeAffinity
	}
	for _, kp := range timeAffinityTable[slot] {
		if strings.Contains(category, kp.keyword) {
			return kp.points
		}
	}
	return DefaultTimeAffinity
}

// 各时段的代表时刻，用于判断店铺在该时段是否营业。
var slotProbe = map[core.TimeOfDay]core.ClockTime{
	core.Breakfast: {Hour: 8, Minute: 0},
	core.Lunch:     {Hour: 12, Minute: 30},
	core.Dinner:    {Hour: 19, Minute: 0},
	core.Snack:     {Hour: 15, Minute: 30},
}

// SlotProbe 返回 now 当天该时段的代表时刻。
func SlotProbe(slot core.TimeOfDay, now time.Time) time.Time {
	c, ok := slotProbe[slot]
	if !ok {
		c = slotProbe[core.Snack]
	}
	return time.Date(now.Year(), now.Month(), now.Day(), c.Hour, c.Minute, 0, 0, now.Location())
}
