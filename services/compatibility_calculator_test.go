package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kindred_server/models"
)

// uniformVector builds a vector with every core trait at core and every
// lifestyle trait at lifestyle.
func uniformVector(core, lifestyle float64) *models.TraitVector {
	v := &models.TraitVector{}
	for _, name := range models.CoreTraitNames {
		v.SetTrait(name, core)
	}
	for _, name := range models.LifestyleTraitNames {
		v.SetTrait(name, lifestyle)
	}
	return v
}

func TestCalculateCompatibility_IdenticalVectors(t *testing.T) {
	a := uniformVector(0.80, 0.20)
	b := uniformVector(0.80, 0.20)

	result := CalculateCompatibility(a, b)

	// All similarities are 1: personality 60, lifestyle 40, plus the mutual
	// growth-mindset bonus, clamped back to 100.
	assert.Equal(t, 100, result.Overall)
	assert.Equal(t, 60.0, result.Personality)
	assert.Equal(t, 40.0, result.Lifestyle)
	assert.False(t, result.CriticalMismatch)
	for trait, similarity := range result.PerTrait {
		assert.Equal(t, 1.0, similarity, "trait %s", trait)
	}
}

func TestCalculateCompatibility_DealBreakerHalvesTotal(t *testing.T) {
	a := uniformVector(0.80, 0.20)
	b := uniformVector(0.80, 0.20)
	a.VeganismSupport = 0.10
	b.VeganismSupport = 0.95

	result := CalculateCompatibility(a, b)

	require.True(t, result.CriticalMismatch)
	// personality 60; veganism similarity 0.15, others 1.0 so lifestyle
	// (3.15/4)*40 = 31.5; halved total 45.75, growth bonus after the
	// penalty makes 55.75, rounded 56.
	assert.Equal(t, 31.5, result.Lifestyle)
	assert.Equal(t, 56, result.Overall)
	assert.Equal(t, 0.15, result.PerTrait[models.TraitVeganismSupport])
}

func TestCalculateCompatibility_Symmetric(t *testing.T) {
	pairs := [][2]*models.TraitVector{
		{uniformVector(0.80, 0.20), uniformVector(0.35, 0.90)},
		{uniformVector(0.10, 0.95), uniformVector(0.95, 0.10)},
		{
			&models.TraitVector{Extroversion: 0.72, Openness: 0.41, Conscientiousness: 0.9,
				Agreeableness: 0.13, EmotionalStability: 0.66, GrowthMindset: 0.81,
				Collectivism: 0.25, SpiritualInclination: 0.5, VeganismSupport: 0.88,
				EnvironmentalConsciousness: 0.07, HealthFocus: 0.63, SocialJustice: 0.94},
			&models.TraitVector{Extroversion: 0.44, Openness: 0.98, Conscientiousness: 0.02,
				Agreeableness: 0.77, EmotionalStability: 0.31, GrowthMindset: 0.56,
				Collectivism: 0.69, SpiritualInclination: 0.12, VeganismSupport: 0.21,
				EnvironmentalConsciousness: 0.85, HealthFocus: 0.49, SocialJustice: 0.3},
		},
	}

	for _, pair := range pairs {
		forward := CalculateCompatibility(pair[0], pair[1])
		reverse := CalculateCompatibility(pair[1], pair[0])
		assert.Equal(t, forward, reverse)
	}
}

func TestCalculateCompatibility_ComplementaryExtroversion(t *testing.T) {
	a := uniformVector(0.50, 0.20)
	b := uniformVector(0.50, 0.50)
	a.Extroversion = 0.75

	result := CalculateCompatibility(a, b)

	// Raw difference 0.25 is treated as 0.15, so the extroversion
	// similarity is 0.85 instead of 0.75.
	assert.Equal(t, 0.85, result.PerTrait[models.TraitExtroversion])
	// personality (7.85/8)*60 = 58.875, lifestyle (0.7*4/4)*40 = 28, plus
	// the complement bonus: 96.875 rounds to 97.
	assert.Equal(t, 97, result.Overall)
}

func TestCalculateCompatibility_NoComplementCreditOutsideWindow(t *testing.T) {
	a := uniformVector(0.50, 0.50)
	b := uniformVector(0.50, 0.50)
	a.Extroversion = 0.95
	b.Extroversion = 0.50 // difference 0.45, outside 0.3 +/- 0.1

	result := CalculateCompatibility(a, b)

	assert.Equal(t, 0.55, result.PerTrait[models.TraitExtroversion])
}

func TestCalculateCompatibility_GrowthMindsetBonusNeedsBoth(t *testing.T) {
	a := uniformVector(0.60, 0.60)
	b := uniformVector(0.60, 0.60)
	a.GrowthMindset = 0.90
	b.GrowthMindset = 0.65 // below the 0.7 floor

	withOneAbove := CalculateCompatibility(a, b)

	b.GrowthMindset = 0.90
	withBothAbove := CalculateCompatibility(a, b)

	assert.Greater(t, withBothAbove.Overall, withOneAbove.Overall)
}

func TestCalculateCompatibility_OverallStaysInRange(t *testing.T) {
	vectors := []*models.TraitVector{
		uniformVector(0, 0),
		uniformVector(1, 1),
		uniformVector(0, 1),
		uniformVector(1, 0),
		uniformVector(0.5, 0.5),
	}
	for _, a := range vectors {
		for _, b := range vectors {
			result := CalculateCompatibility(a, b)
			assert.GreaterOrEqual(t, result.Overall, 0)
			assert.LessOrEqual(t, result.Overall, 100)
		}
	}
}

func TestCalculateCompatibility_NoDealBreakerOnHealthFocus(t *testing.T) {
	// health_focus is not a deal-breaker trait even with an extreme gap.
	a := uniformVector(0.80, 0.50)
	b := uniformVector(0.80, 0.50)
	a.HealthFocus = 0.05
	b.HealthFocus = 0.95

	result := CalculateCompatibility(a, b)
	assert.False(t, result.CriticalMismatch)
}
