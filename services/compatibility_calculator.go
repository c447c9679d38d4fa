package services

import (
	"math"

	"kindred_server/models"
	"kindred_server/utils"
)

const (
	personalityWeight = 60.0
	lifestyleWeight   = 40.0

	// Extroversion scores a raw difference near this value as if it were
	// smaller: some opposites attract.
	complementaryDifference = 0.3
	complementaryTolerance  = 0.1
	complementaryCredit     = 0.1

	dealBreakerGap       = 0.6
	dealBreakerThreshold = 0.8

	complementBonus     = 10.0
	growthMindsetBonus  = 10.0
	growthMindsetFloor  = 0.7
	criticalMismatchCut = 0.5
)

// dealBreakerTraits are the lifestyle traits where a large one-sided gap
// halves the overall score.
var dealBreakerTraits = map[string]bool{
	models.TraitVeganismSupport:            true,
	models.TraitEnvironmentalConsciousness: true,
	models.TraitSocialJustice:              true,
}

// CalculateCompatibility scores two trait vectors. Pure and symmetric:
// every operation treats the operands interchangeably, so swapping a and b
// cannot change the result.
func CalculateCompatibility(a, b *models.TraitVector) models.CompatibilityBreakdown {
	perTrait := make(map[string]float64, 12)

	coreA, coreB := a.Core(), b.Core()
	var coreSum float64
	for _, name := range models.CoreTraitNames {
		diff := math.Abs(coreA[name] - coreB[name])
		if name == models.TraitExtroversion && isComplementary(diff) {
			diff = math.Max(0, diff-complementaryCredit)
		}
		similarity := math.Max(0, 1-diff)
		perTrait[name] = utils.Round2(similarity)
		coreSum += similarity
	}
	personality := coreSum / float64(len(models.CoreTraitNames)) * personalityWeight

	lifestyleA, lifestyleB := a.Lifestyle(), b.Lifestyle()
	var lifestyleSum float64
	criticalMismatch := false
	for _, name := range models.LifestyleTraitNames {
		av, bv := lifestyleA[name], lifestyleB[name]
		diff := math.Abs(av - bv)
		similarity := math.Max(0, 1-diff)
		perTrait[name] = utils.Round2(similarity)
		lifestyleSum += similarity

		if dealBreakerTraits[name] && diff > dealBreakerGap && math.Max(av, bv) > dealBreakerThreshold {
			criticalMismatch = true
		}
	}
	lifestyle := lifestyleSum / float64(len(models.LifestyleTraitNames)) * lifestyleWeight

	total := personality + lifestyle
	if criticalMismatch {
		total *= criticalMismatchCut
	}

	// Bonuses apply after the mismatch penalty.
	if isComplementary(math.Abs(a.Extroversion - b.Extroversion)) {
		total += complementBonus
	}
	if a.GrowthMindset > growthMindsetFloor && b.GrowthMindset > growthMindsetFloor {
		total += growthMindsetBonus
	}

	return models.CompatibilityBreakdown{
		Overall:          utils.ClampInt(int(math.Round(total)), 0, 100),
		Personality:      utils.Round2(personality),
		Lifestyle:        utils.Round2(lifestyle),
		PerTrait:         perTrait,
		CriticalMismatch: criticalMismatch,
	}
}

func isComplementary(diff float64) bool {
	return math.Abs(diff-complementaryDifference) <= complementaryTolerance
}
