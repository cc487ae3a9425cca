package service

import (
	"math"

	"changeready_go/internal/model"
)

// CalculateReadiness 把 1..5 的李克特答案线性映射到 0..100。
// 空输入返回 0；结果保持完整精度，展示取整在聚合出口处完成。
func CalculateReadiness(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	avg := float64(sum) / float64(len(values))
	readiness := (avg - 1) / 4 * 100
	return math.Max(0, math.Min(100, readiness))
}

// ClassifyStakeholder 返回 promoter / neutral / critic，边界 75 与 50 归入上一档。
func ClassifyStakeholder(score float64) string {
	switch {
	case score >= 75:
		return model.CategoryPromoter
	case score >= 50:
		return model.CategoryNeutral
	default:
		return model.CategoryCritic
	}
}

// CalculateStatus 返回 ready / attention / critical，边界与 ClassifyStakeholder 相同。
func CalculateStatus(score float64) string {
	switch {
	case score >= 75:
		return model.ReadinessReady
	case score >= 50:
		return model.ReadinessAttention
	default:
		return model.ReadinessCritical
	}
}

// CalculateTrend 返回取整后的百分点差值，正数表示改善。
func CalculateTrend(current, previous float64) int {
	return roundPercent(current - previous)
}

// roundPercent 四舍五入到整数（远离零）。
func roundPercent(v float64) int {
	return int(math.Round(v))
}

// roundAverage 保留两位小数。
func roundAverage(v float64) float64 {
	return math.Round(v*100) / 100
}
