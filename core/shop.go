package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClockTime 是一天内的时刻（分钟精度），用于营业时间。
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime 解析 "HH:MM" / "HH:MM:SS" 格式；"24:00" 视为当天结束。
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return ClockTime{}, fmt.Errorf("parse clock time %q: bad format", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return ClockTime{}, fmt.Errorf("parse clock time %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return ClockTime{}, fmt.Errorf("parse clock time %q: %w", s, err)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return ClockTime{}, fmt.Errorf("parse clock time %q: out of range", s)
	}
	return ClockTime{Hour: h, Minute: m}, nil
}

// Minutes 返回从 00:00 起的分钟数。
func (c ClockTime) Minutes() int { return c.Hour*60 + c.Minute }

func (c ClockTime) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

// OperatingHours 营业时间，每个字段都可缺失。
type OperatingHours struct {
	Open       *ClockTime
	Close      *ClockTime
	BreakStart *ClockTime
	BreakEnd   *ClockTime
}

// Known 是否有完整的开/关店时间。
func (h OperatingHours) Known() bool {
	return h.Open != nil && h.Close != nil
}

// SpanMinutes 返回营业时长（分钟），跨零点时按次日计算；未知返回 0。
func (h OperatingHours) SpanMinutes() int {
	if !h.Known() {
		return 0
	}
	open, closing := h.Open.Minutes(), h.Close.Minutes()
	if closing <= open {
		closing += 24 * 60
	}
	return closing - open
}

// IsOpenAt 判断给定时刻是否营业（休息时间视为不营业）。
func (h OperatingHours) IsOpenAt(t time.Time) bool {
	if !h.Known() {
		return false
	}
	now := t.Hour()*60 + t.Minute()
	if !inWindow(now, h.Open.Minutes(), h.Close.Minutes()) {
		return false
	}
	if h.hasBreak() && inWindow(now, h.BreakStart.Minutes(), h.BreakEnd.Minutes()) {
		return false
	}
	return true
}

// hasBreak 休息时间两端都存在且长度不为零；00:00-00:00 这类占位值表示没有休息。
func (h OperatingHours) hasBreak() bool {
	return h.BreakStart != nil && h.BreakEnd != nil && h.BreakStart.Minutes() != h.BreakEnd.Minutes()
}

// OpensWithin 判断在 d 时间内是否会开始营业（包括休息结束）。
func (h OperatingHours) OpensWithin(t time.Time, d time.Duration) bool {
	if !h.Known() || h.IsOpenAt(t) {
		return false
	}
	now := t.Hour()*60 + t.Minute()
	limit := int(d / time.Minute)
	starts := []int{h.Open.Minutes()}
	if h.hasBreak() {
		starts = append(starts, h.BreakEnd.Minutes())
	}
	for _, s := range starts {
		delta := s - now
		if delta < 0 {
			delta += 24 * 60
		}
		if delta <= limit {
			return true
		}
	}
	return false
}

// inWindow [start, end)，支持跨零点；start == end 表示全天。
func inWindow(now, start, end int) bool {
	if start == end {
		return true
	}
	if start < end {
		return now >= start && now < end
	}
	return now >= start || now < end
}

// Shop 是目录中的店铺。
// Category 是解析后的规范类目（复合类目按 "/" 切分取第一个有效段）。
type Shop struct {
	ID              int64
	Name            string
	Category        string
	RawCategory     string
	Address         string
	District        string
	GoodInfluence   bool
	AcceptsFoodcard *bool // 三态：nil 表示未知
	Hours           OperatingHours
	OwnerMessage    *string
	Discount        bool

	// 可选属性，缺失时取中性值
	Rating      *float64 // 0-5
	ReviewCount int
	IsNew       bool
	Verified    bool
}

// FoodcardAccepted 只有明确为 true 才算支持。
func (s *Shop) FoodcardAccepted() bool {
	return s.AcceptsFoodcard != nil && *s.AcceptsFoodcard
}

// ParseCategory 把复合类目（"한식/분식"）解析成单个规范 token。
func ParseCategory(raw string) string {
	for _, seg := range strings.Split(raw, "/") {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			return seg
		}
	}
	return ""
}

// MenuOption 菜单选项（加价项）。
type MenuOption struct {
	Name            string
	AdditionalPrice int
	Category        string
}

// Menu 是店铺下的菜单。ShopID 必须指向已存在的店铺。
type Menu struct {
	ID       int64
	ShopID   int64
	Name     string
	Price    int
	Category string
	Popular  bool
	Options  []MenuOption
}
