package models

import "time"

// CompatibilityTTL is how long a cached pair score stays live.
const CompatibilityTTL = 7 * 24 * time.Hour

// CompatibilityBreakdown is the result of the pairwise calculator: an
// overall score in 0-100, the personality (of 60) and lifestyle (of 40)
// sub-scores, and a per-trait similarity breakdown.
type CompatibilityBreakdown struct {
	Overall          int                `json:"overall"`
	Personality      float64            `json:"personality"`
	Lifestyle        float64            `json:"lifestyle"`
	PerTrait         map[string]float64 `json:"perTrait"`
	CriticalMismatch bool               `json:"criticalMismatch"`
}

// CompatibilityScoreEntry is a cached breakdown for a canonical user pair.
// At most one live entry exists per pair; entries past ExpiresAt are treated
// as absent.
type CompatibilityScoreEntry struct {
	PairKey          string             `json:"pairKey"`
	Overall          int                `json:"overall"`
	Personality      float64            `json:"personality"`
	Lifestyle        float64            `json:"lifestyle"`
	PerTrait         map[string]float64 `json:"perTrait"`
	CriticalMismatch bool               `json:"criticalMismatch"`
	ComputedAt       string             `json:"computedAt"` // RFC3339
	ExpiresAt        string             `json:"expiresAt"`  // RFC3339
}

// Expired reports whether the entry is past its expiry at the given instant.
// Unparseable timestamps count as expired.
func (e *CompatibilityScoreEntry) Expired(now time.Time) bool {
	exp, err := time.Parse(time.RFC3339, e.ExpiresAt)
	if err != nil {
		return true
	}
	return !now.Before(exp)
}

// Breakdown converts the cached entry back to a calculator breakdown.
func (e *CompatibilityScoreEntry) Breakdown() CompatibilityBreakdown {
	return CompatibilityBreakdown{
		Overall:          e.Overall,
		Personality:      e.Personality,
		Lifestyle:        e.Lifestyle,
		PerTrait:         e.PerTrait,
		CriticalMismatch: e.CriticalMismatch,
	}
}

// NewCompatibilityScoreEntry stamps a breakdown for caching.
func NewCompatibilityScoreEntry(pairKey string, b CompatibilityBreakdown, now time.Time) *CompatibilityScoreEntry {
	return &CompatibilityScoreEntry{
		PairKey:          pairKey,
		Overall:          b.Overall,
		Personality:      b.Personality,
		Lifestyle:        b.Lifestyle,
		PerTrait:         b.PerTrait,
		CriticalMismatch: b.CriticalMismatch,
		ComputedAt:       now.UTC().Format(time.RFC3339),
		ExpiresAt:        now.UTC().Add(CompatibilityTTL).Format(time.RFC3339),
	}
}
