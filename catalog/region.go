package catalog

import "strings"

// Proximity 用户所在区与店铺所在区的远近关系。
type Proximity int

const (
	ProximityUnknown Proximity = iota
	ProximityExact
	ProximityRegion
	ProximityFar
)

// Regions 把区（district）映射到更大的生活圈（region）。
type Regions map[string]string

// DefaultRegions 首尔五大生活圈。
var DefaultRegions = Regions{
	"종로구": "도심권", "중구": "도심권", "용산구": "도심권",
	"성동구": "동북권", "광진구": "동북권", "동대문구": "동북권", "중랑구": "동북권",
	"성북구": "동북권", "강북구": "동북권", "도봉구": "동북권", "노원구": "동북권",
	"은평구": "서북권", "서대문구": "서북권", "마포구": "서북권",
	"양천구": "서남권", "강서구": "서남권", "구로구": "서남권", "금천구": "서남권",
	"영등포구": "서남권", "동작구": "서남권", "관악구": "서남권",
	"서초구": "동남권", "강남구": "동남권", "송파구": "동남권", "강동구": "동남권",
}

// Region 返回区所属的生活圈，未登记时返回空。
func (r Regions) Region(district string) string {
	return r[strings.TrimSpace(district)]
}

// Proximity 比较用户区与店铺区。任一方缺失时为 Unknown。
func (r Regions) Proximity(userDistrict, shopDistrict string) Proximity {
	u, s := strings.TrimSpace(userDistrict), strings.TrimSpace(shopDistrict)
	if u == "" || s == "" {
		return ProximityUnknown
	}
	if u == s || strings.Contains(s, u) || strings.Contains(u, s) {
		return ProximityExact
	}
	if ru := r.Region(u); ru != "" && ru == r.Region(s) {
		return ProximityRegion
	}
	return ProximityFar
}

// DistancePenalty 距离惩罚：同区 0，同生活圈或未知 0.5，其余 1。
func (p Proximity) DistancePenalty() float64 {
	switch p {
	case ProximityExact:
		return 0
	case ProximityFar:
		return 1
	default:
		return 0.5
	}
}
