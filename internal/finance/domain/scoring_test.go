package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeBureauScore(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{score: 500, want: "0"},
		{score: 620, want: "40"},
		{score: 650, want: "50"},
		{score: 800, want: "100"},
		{score: 850, want: "100"}, // clamped above
		{score: 480, want: "0"},   // clamped below
	}

	for _, tc := range cases {
		got := NormalizeBureauScore(tc.score)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
			"score %d: want %s, got %s", tc.score, tc.want, got)
	}
}

func TestNormalizeCapacityHeadroom(t *testing.T) {
	max := decimal.NewFromInt(300)

	assert.True(t, NormalizeCapacityHeadroom(max, decimal.NewFromInt(30)).Equal(decimal.NewFromInt(90)))
	assert.True(t, NormalizeCapacityHeadroom(max, decimal.NewFromInt(300)).IsZero())
	// EMI 超过上限时余量钳位到 0 而不是负数
	assert.True(t, NormalizeCapacityHeadroom(max, decimal.NewFromInt(400)).IsZero())
	// 上限不为正直接 0
	assert.True(t, NormalizeCapacityHeadroom(decimal.Zero, decimal.NewFromInt(30)).IsZero())
}

func TestComputeFinalScore_FloorsResult(t *testing.T) {
	// 620 分、上限 300、EMI 30、信号满格：12 + 27 + 40 = 79
	got := ComputeFinalScore(620, decimal.NewFromInt(300), decimal.NewFromInt(30), SaturatedSignals())
	assert.Equal(t, 79, got)

	// 非整数的加权和向下取整
	signals := ScoringSignals{
		BiometricConfidence: decimal.RequireFromString("87.5"),
		ReferencesScore:     decimal.RequireFromString("33.3"),
		GeoBehaviorScore:    decimal.RequireFromString("66.6"),
	}
	// 0.3×40 + 0.3×90 + 0.2×87.5 + 0.1×33.3 + 0.1×66.6 = 66.49 → 66
	got = ComputeFinalScore(620, decimal.NewFromInt(300), decimal.NewFromInt(30), signals)
	assert.Equal(t, 66, got)
}

func TestComputeFinalScore_MissingSignalsDefaultZero(t *testing.T) {
	got := ComputeFinalScore(620, decimal.NewFromInt(300), decimal.NewFromInt(30), ScoringSignals{})
	assert.Equal(t, 39, got)
}

func TestComputeFinalScore_SignalsClamped(t *testing.T) {
	over := ScoringSignals{
		BiometricConfidence: decimal.NewFromInt(150),
		ReferencesScore:     decimal.NewFromInt(200),
		GeoBehaviorScore:    decimal.NewFromInt(-50),
	}
	// 越界信号钳位：0.3×40 + 0.3×90 + 0.2×100 + 0.1×100 + 0.1×0 = 69
	got := ComputeFinalScore(620, decimal.NewFromInt(300), decimal.NewFromInt(30), over)
	assert.Equal(t, 69, got)
}

func TestIdentityContext_BiometricConfidence(t *testing.T) {
	assert.True(t, IdentityContext{}.BiometricConfidence().IsZero())

	score := decimal.RequireFromString("92.5")
	ctx := IdentityContext{FaceMatchScore: &score}
	assert.True(t, ctx.BiometricConfidence().Equal(score))
}
