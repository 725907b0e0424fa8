package feature

import "math"

// Clamp01 把值夹到 [0,1]；NaN/Inf 视为缺失，返回 0。
func Clamp01(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Ratio 计算 x/scale 并夹到 [0,1]，scale<=0 时返回 0。
func Ratio(x, scale float64) float64 {
	if scale <= 0 {
		return 0
	}
	return Clamp01(x / scale)
}

// CapRatio 计算 min(x, limit)/limit。
func CapRatio(x, limit float64) float64 {
	if x > limit {
		x = limit
	}
	return Ratio(x, limit)
}

// MeanStd 返回均值与总体标准差。
func MeanStd(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var v float64
	for _, x := range xs {
		v += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(v / float64(len(xs)))
}

// Max 返回最大值，空切片返回 0。
func Max(xs []float64) float64 {
	var m float64
	for i, x := range xs {
		if i == 0 || x > m {
			m = x
		}
	}
	return m
}

func boolf(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
