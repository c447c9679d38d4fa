package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"kindred_server/models"
	"kindred_server/utils"
)

// CompatibilityService answers pairwise score requests cache-first, falling
// back to the pure calculator on miss or expiry.
type CompatibilityService struct {
	Traits *TraitService
	Cache  CompatibilityCache
	Logger *zap.Logger
}

// BulkCompatibilityResult is one target's outcome in a bulk lookup: either a
// breakdown or a reason it was skipped, never both.
type BulkCompatibilityResult struct {
	TargetID  string                         `json:"targetId"`
	Breakdown *models.CompatibilityBreakdown `json:"breakdown,omitempty"`
	Skipped   string                         `json:"skipped,omitempty"`
}

// Compatibility returns the breakdown for a pair. Requires both parties to
// have completed the questionnaire; otherwise ErrQuestionnaireIncomplete.
// Cache-write failures degrade to logging, the fresh result is still served.
func (cs *CompatibilityService) Compatibility(ctx context.Context, userA, userB string) (models.CompatibilityBreakdown, error) {
	vectorA, err := cs.Traits.GetTraitVector(ctx, userA)
	if err != nil {
		return models.CompatibilityBreakdown{}, err
	}
	vectorB, err := cs.Traits.GetTraitVector(ctx, userB)
	if err != nil {
		return models.CompatibilityBreakdown{}, err
	}

	pairKey := utils.CanonicalPairKey(userA, userB)
	if entry, err := cs.Cache.Get(ctx, pairKey); err != nil {
		cs.Logger.Warn("compatibility cache read failed",
			zap.String("pairKey", pairKey), zap.Error(err))
	} else if entry != nil {
		return entry.Breakdown(), nil
	}

	breakdown := CalculateCompatibility(vectorA, vectorB)

	entry := models.NewCompatibilityScoreEntry(pairKey, breakdown, time.Now())
	if err := cs.Cache.Put(ctx, entry); err != nil {
		cs.Logger.Warn("compatibility cache write failed",
			zap.String("pairKey", pairKey), zap.Error(err))
	}
	return breakdown, nil
}

// BulkCompatibility fans out one independent lookup per target. Each
// target's failure is isolated: it appears as a skipped item, never aborts
// the batch.
func (cs *CompatibilityService) BulkCompatibility(ctx context.Context, userID string, targetIDs []string) []BulkCompatibilityResult {
	results := make([]BulkCompatibilityResult, len(targetIDs))

	var wg sync.WaitGroup
	for i, targetID := range targetIDs {
		wg.Add(1)
		go func(i int, targetID string) {
			defer wg.Done()
			breakdown, err := cs.Compatibility(ctx, userID, targetID)
			if err != nil {
				cs.Logger.Debug("bulk compatibility target skipped",
					zap.String("targetId", targetID), zap.Error(err))
				results[i] = BulkCompatibilityResult{TargetID: targetID, Skipped: err.Error()}
				return
			}
			results[i] = BulkCompatibilityResult{TargetID: targetID, Breakdown: &breakdown}
		}(i, targetID)
	}
	wg.Wait()

	return results
}
