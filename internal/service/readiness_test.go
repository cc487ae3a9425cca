package service

import (
	"testing"

	"changeready_go/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestCalculateReadiness(t *testing.T) {
	cases := []struct {
		name   string
		values []int
		want   float64
	}{
		{"empty", nil, 0},
		{"all ones", []int{1, 1, 1}, 0},
		{"all fives", []int{5, 5}, 100},
		{"midpoint", []int{3}, 50},
		{"all fours", []int{4, 4, 4, 4}, 75},
		{"full range", []int{1, 2, 3, 4, 5}, 50},
		{"mixed", []int{4, 5}, 87.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, CalculateReadiness(tc.values), 1e-9)
		})
	}
}

func TestClassifyAndStatus_Boundaries(t *testing.T) {
	cases := []struct {
		score    float64
		category string
		status   string
	}{
		{100, model.CategoryPromoter, model.ReadinessReady},
		{75, model.CategoryPromoter, model.ReadinessReady},
		{74.99, model.CategoryNeutral, model.ReadinessAttention},
		{50, model.CategoryNeutral, model.ReadinessAttention},
		{49.99, model.CategoryCritic, model.ReadinessCritical},
		{0, model.CategoryCritic, model.ReadinessCritical},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.category, ClassifyStakeholder(tc.score), "score %v", tc.score)
		assert.Equal(t, tc.status, CalculateStatus(tc.score), "score %v", tc.score)
	}
}

func TestCalculateTrend(t *testing.T) {
	assert.Equal(t, 12, CalculateTrend(52, 40))
	assert.Equal(t, -12, CalculateTrend(40, 52))
	assert.Equal(t, 0, CalculateTrend(50, 50))
	// 远离零取整
	assert.Equal(t, 1, CalculateTrend(50.5, 50))
	assert.Equal(t, -1, CalculateTrend(50, 50.5))
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 63, roundPercent(62.5))
	assert.Equal(t, 62, roundPercent(62.49))
	assert.Equal(t, 4.0, roundAverage(4))
	assert.Equal(t, 3.67, roundAverage(11.0/3.0))
	assert.Equal(t, 2.5, roundAverage(2.5))
}
