package models

// Trait names. The first eight are the core personality traits, the last
// four the lifestyle traits.
const (
	TraitExtroversion         = "extroversion"
	TraitOpenness             = "openness"
	TraitConscientiousness    = "conscientiousness"
	TraitAgreeableness        = "agreeableness"
	TraitEmotionalStability   = "emotional_stability"
	TraitGrowthMindset        = "growth_mindset"
	TraitCollectivism         = "collectivism"
	TraitSpiritualInclination = "spiritual_inclination"

	TraitVeganismSupport            = "veganism_support"
	TraitEnvironmentalConsciousness = "environmental_consciousness"
	TraitHealthFocus                = "health_focus"
	TraitSocialJustice              = "social_justice"
)

// CoreTraitNames lists the 8 personality traits in canonical order.
var CoreTraitNames = []string{
	TraitExtroversion,
	TraitOpenness,
	TraitConscientiousness,
	TraitAgreeableness,
	TraitEmotionalStability,
	TraitGrowthMindset,
	TraitCollectivism,
	TraitSpiritualInclination,
}

// LifestyleTraitNames lists the 4 values/ethics traits in canonical order.
var LifestyleTraitNames = []string{
	TraitVeganismSupport,
	TraitEnvironmentalConsciousness,
	TraitHealthFocus,
	TraitSocialJustice,
}

// TraitVector is the 12-dimension normalized profile derived from a user's
// questionnaire answers. Every value is in [0,1], rounded to two decimal
// places at write time.
type TraitVector struct {
	UserID string `dynamodbav:"userId" json:"userId"`

	Extroversion         float64 `dynamodbav:"extroversion" json:"extroversion"`
	Openness             float64 `dynamodbav:"openness" json:"openness"`
	Conscientiousness    float64 `dynamodbav:"conscientiousness" json:"conscientiousness"`
	Agreeableness        float64 `dynamodbav:"agreeableness" json:"agreeableness"`
	EmotionalStability   float64 `dynamodbav:"emotionalStability" json:"emotionalStability"`
	GrowthMindset        float64 `dynamodbav:"growthMindset" json:"growthMindset"`
	Collectivism         float64 `dynamodbav:"collectivism" json:"collectivism"`
	SpiritualInclination float64 `dynamodbav:"spiritualInclination" json:"spiritualInclination"`

	VeganismSupport            float64 `dynamodbav:"veganismSupport" json:"veganismSupport"`
	EnvironmentalConsciousness float64 `dynamodbav:"environmentalConsciousness" json:"environmentalConsciousness"`
	HealthFocus                float64 `dynamodbav:"healthFocus" json:"healthFocus"`
	SocialJustice              float64 `dynamodbav:"socialJustice" json:"socialJustice"`

	ComputedAt string `dynamodbav:"computedAt" json:"computedAt"`
}

// Core returns the personality traits keyed by trait name.
func (t *TraitVector) Core() map[string]float64 {
	return map[string]float64{
		TraitExtroversion:         t.Extroversion,
		TraitOpenness:             t.Openness,
		TraitConscientiousness:    t.Conscientiousness,
		TraitAgreeableness:        t.Agreeableness,
		TraitEmotionalStability:   t.EmotionalStability,
		TraitGrowthMindset:        t.GrowthMindset,
		TraitCollectivism:         t.Collectivism,
		TraitSpiritualInclination: t.SpiritualInclination,
	}
}

// Lifestyle returns the values/ethics traits keyed by trait name.
func (t *TraitVector) Lifestyle() map[string]float64 {
	return map[string]float64{
		TraitVeganismSupport:            t.VeganismSupport,
		TraitEnvironmentalConsciousness: t.EnvironmentalConsciousness,
		TraitHealthFocus:                t.HealthFocus,
		TraitSocialJustice:              t.SocialJustice,
	}
}

// SetTrait assigns a score to the named trait. Unknown names are ignored so
// a stale weight table cannot corrupt a vector.
func (t *TraitVector) SetTrait(name string, value float64) {
	switch name {
	case TraitExtroversion:
		t.Extroversion = value
	case TraitOpenness:
		t.Openness = value
	case TraitConscientiousness:
		t.Conscientiousness = value
	case TraitAgreeableness:
		t.Agreeableness = value
	case TraitEmotionalStability:
		t.EmotionalStability = value
	case TraitGrowthMindset:
		t.GrowthMindset = value
	case TraitCollectivism:
		t.Collectivism = value
	case TraitSpiritualInclination:
		t.SpiritualInclination = value
	case TraitVeganismSupport:
		t.VeganismSupport = value
	case TraitEnvironmentalConsciousness:
		t.EnvironmentalConsciousness = value
	case TraitHealthFocus:
		t.HealthFocus = value
	case TraitSocialJustice:
		t.SocialJustice = value
	}
}

// TraitVectorsTable is the DynamoDB table name for computed trait vectors
const TraitVectorsTable = "TraitVectors"
