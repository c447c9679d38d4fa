package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"kindred_server/models"
	"kindred_server/utils"
)

const (
	defaultDiscoveryLimit = 20
	// The candidate batch is oversized so later distance filtering still
	// leaves enough profiles to fill the requested limit.
	discoveryOversample = 3

	defaultMinAge = 18
	defaultMaxAge = 99
)

// Fallback heuristic shares, each sub-score already scaled to its weight.
const (
	heuristicInterestWeight     = 40.0
	heuristicAgeWeight          = 20.0
	heuristicAgeSpreadYears     = 10.0
	heuristicEducationExact     = 15.0
	heuristicEducationPartial   = 10.0
	heuristicEducationMinimal   = 5.0
	heuristicCompletenessWeight = 10.0
	heuristicProximityWeight    = 10.0
	heuristicProximityNeutral   = 5.0
	heuristicProximityRangeKM   = 100.0
)

// DiscoveryFilters are the optional ad-hoc overrides of a discovery request.
// Age bounds narrow the stored preference, never widen it.
type DiscoveryFilters struct {
	MinAge        int
	MaxAge        int
	MaxDistanceKM float64
	Exclude       []string
}

// DiscoveryService builds a filtered candidate pool and ranks it by
// compatibility. Read-only; safe against a secondary replica.
type DiscoveryService struct {
	Dynamo   DataStore
	Profiles *ProfileService
	Compat   *CompatibilityService
	Logger   *zap.Logger
}

// Discover returns the top candidates for the user, ranked by compatibility
// score descending.
func (ds *DiscoveryService) Discover(ctx context.Context, userID string, limit int, filters DiscoveryFilters) ([]models.DiscoveryCandidate, error) {
	if limit <= 0 {
		limit = defaultDiscoveryLimit
	}

	requester, err := ds.Profiles.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	excluded, err := ds.exclusionSet(ctx, userID, filters.Exclude)
	if err != nil {
		return nil, err
	}

	pool, err := ds.candidatePool(ctx, requester, filters, excluded, limit*discoveryOversample)
	if err != nil {
		return nil, err
	}

	maxDistance := requester.MaxDistanceKM
	if filters.MaxDistanceKM > 0 {
		maxDistance = filters.MaxDistanceKM
	}

	candidates := make([]models.DiscoveryCandidate, 0, len(pool))
	for _, profile := range pool {
		distance := distanceBetween(requester, &profile)
		// Missing coordinates mean "unknown": never an exclusion.
		if maxDistance > 0 && distance != nil && *distance > maxDistance {
			continue
		}

		score, err := ds.scoreCandidate(ctx, requester, &profile, distance)
		if err != nil {
			ds.Logger.Warn("candidate scoring failed, skipping",
				zap.String("userId", userID), zap.String("candidateId", profile.UserID), zap.Error(err))
			continue
		}

		candidates = append(candidates, models.DiscoveryCandidate{
			Profile:            profile,
			CompatibilityScore: score,
			DistanceKM:         distance,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].CompatibilityScore != candidates[j].CompatibilityScore {
			return candidates[i].CompatibilityScore > candidates[j].CompatibilityScore
		}
		return candidates[i].Profile.UserID < candidates[j].Profile.UserID
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// exclusionSet collects self, already liked/passed, blocked in either
// direction and any caller-supplied exclusions.
func (ds *DiscoveryService) exclusionSet(ctx context.Context, userID string, callerExcluded []string) (map[string]bool, error) {
	excluded := map[string]bool{userID: true}
	for _, id := range callerExcluded {
		excluded[id] = true
	}

	sent, err := ds.Dynamo.QueryItems(ctx, models.InteractionsTable, "senderId = :sender",
		map[string]types.AttributeValue{
			":sender": &types.AttributeValueMemberS{Value: userID},
		}, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sent interactions: %w", err)
	}
	var sentEdges []models.Interaction
	if err := attributevalue.UnmarshalListOfMaps(sent, &sentEdges); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interactions: %w", err)
	}
	for _, edge := range sentEdges {
		switch edge.Type {
		case models.InteractionTypeLike, models.InteractionTypePass,
			models.InteractionTypeSuperLike, models.InteractionTypeBlock:
			excluded[edge.ReceiverID] = true
		}
	}

	received, err := ds.Dynamo.QueryItemsWithIndex(ctx, models.InteractionsTable, models.ReceiverIDIndex,
		"receiverId = :receiver",
		map[string]types.AttributeValue{
			":receiver": &types.AttributeValueMemberS{Value: userID},
		}, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch received interactions: %w", err)
	}
	var receivedEdges []models.Interaction
	if err := attributevalue.UnmarshalListOfMaps(received, &receivedEdges); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interactions: %w", err)
	}
	for _, edge := range receivedEdges {
		if edge.Type == models.InteractionTypeBlock {
			excluded[edge.SenderID] = true
		}
	}

	return excluded, nil
}

// candidatePool queries discoverable profiles matching the requester's
// gender preference and age window, dropping excluded ids, up to batchSize.
func (ds *DiscoveryService) candidatePool(ctx context.Context, requester *models.UserProfile, filters DiscoveryFilters, excluded map[string]bool, batchSize int) ([]models.UserProfile, error) {
	minDOB, maxDOB := DOBWindow(requester, filters, time.Now())

	filterExpression := "discoverable = :discoverable AND dob BETWEEN :minDob AND :maxDob"
	values := map[string]types.AttributeValue{
		":discoverable": &types.AttributeValueMemberBOOL{Value: true},
		":minDob":       &types.AttributeValueMemberS{Value: minDOB},
		":maxDob":       &types.AttributeValueMemberS{Value: maxDOB},
	}
	if requester.GenderPreference != "" && requester.GenderPreference != models.GenderPreferenceAll {
		filterExpression += " AND gender = :gender"
		values[":gender"] = &types.AttributeValueMemberS{Value: requester.GenderPreference}
	}

	items, err := ds.Dynamo.ScanItems(ctx, models.UserProfilesTable, filterExpression, values, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to scan candidate profiles: %w", err)
	}
	var profiles []models.UserProfile
	if err := attributevalue.UnmarshalListOfMaps(items, &profiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal candidate profiles: %w", err)
	}

	pool := make([]models.UserProfile, 0, batchSize)
	for _, profile := range profiles {
		if excluded[profile.UserID] {
			continue
		}
		pool = append(pool, profile)
		if len(pool) == batchSize {
			break
		}
	}
	return pool, nil
}

// scoreCandidate prefers the cache/calculator path; if either party has not
// completed the questionnaire it falls back to the basic profile heuristic.
func (ds *DiscoveryService) scoreCandidate(ctx context.Context, requester, candidate *models.UserProfile, distance *float64) (int, error) {
	breakdown, err := ds.Compat.Compatibility(ctx, requester.UserID, candidate.UserID)
	if err == nil {
		return breakdown.Overall, nil
	}
	if errors.Is(err, ErrQuestionnaireIncomplete) {
		return BasicCompatibilityScore(requester, candidate, distance, time.Now()), nil
	}
	return 0, err
}

// DOBWindow translates the stored age preference, narrowed by any ad-hoc
// override, into an inclusive date-of-birth window (YYYY-MM-DD).
func DOBWindow(requester *models.UserProfile, filters DiscoveryFilters, now time.Time) (minDOB, maxDOB string) {
	minAge := requester.MinAge
	if minAge <= 0 {
		minAge = defaultMinAge
	}
	maxAge := requester.MaxAge
	if maxAge <= 0 {
		maxAge = defaultMaxAge
	}
	if filters.MinAge > minAge {
		minAge = filters.MinAge
	}
	if filters.MaxAge > 0 && filters.MaxAge < maxAge {
		maxAge = filters.MaxAge
	}
	if maxAge < minAge {
		maxAge = minAge
	}

	// Youngest allowed is exactly minAge today; oldest turned maxAge but
	// not yet maxAge+1.
	maxBirth := now.AddDate(-minAge, 0, 0)
	minBirth := now.AddDate(-maxAge-1, 0, 1)
	return minBirth.Format("2006-01-02"), maxBirth.Format("2006-01-02")
}

// BasicCompatibilityScore is the fallback heuristic for pairs without trait
// vectors: shared-interest overlap, age closeness, education match, profile
// completeness and proximity, each pre-scaled to its weight.
func BasicCompatibilityScore(a, b *models.UserProfile, distanceKM *float64, now time.Time) int {
	total := interestOverlapRatio(a.Interests, b.Interests) * heuristicInterestWeight

	if ageA, okA := AgeFromDOB(a.DOB, now); okA {
		if ageB, okB := AgeFromDOB(b.DOB, now); okB {
			gap := math.Abs(float64(ageA - ageB))
			total += math.Max(0, 1-gap/heuristicAgeSpreadYears) * heuristicAgeWeight
		}
	}

	total += educationMatchPoints(a.Education, b.Education)

	total += (float64(a.Completeness) + float64(b.Completeness)) / 2 / 10 * heuristicCompletenessWeight

	if distanceKM != nil {
		total += math.Max(0, 1-*distanceKM/heuristicProximityRangeKM) * heuristicProximityWeight
	} else {
		total += heuristicProximityNeutral
	}

	return utils.ClampInt(int(math.Round(total)), 0, 100)
}

// interestOverlapRatio is the Jaccard ratio of the two interest sets.
func interestOverlapRatio(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]bool, len(a))
	for _, interest := range a {
		setA[strings.ToLower(strings.TrimSpace(interest))] = true
	}
	setB := make(map[string]bool, len(b))
	for _, interest := range b {
		setB[strings.ToLower(strings.TrimSpace(interest))] = true
	}
	union := make(map[string]bool, len(setA)+len(setB))
	shared := 0
	for interest := range setA {
		union[interest] = true
	}
	for interest := range setB {
		union[interest] = true
		if setA[interest] {
			shared++
		}
	}
	return float64(shared) / float64(len(union))
}

func educationMatchPoints(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	switch {
	case a == "" || b == "":
		return 0
	case a == b:
		return heuristicEducationExact
	case strings.Contains(a, b) || strings.Contains(b, a):
		return heuristicEducationPartial
	default:
		return heuristicEducationMinimal
	}
}

// AgeFromDOB returns the age in whole years for a YYYY-MM-DD date of birth.
func AgeFromDOB(dob string, now time.Time) (int, bool) {
	birth, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return 0, false
	}
	age := now.Year() - birth.Year()
	if now.YearDay() < birth.YearDay() {
		age--
	}
	if age < 0 {
		return 0, false
	}
	return age, true
}

func distanceBetween(a, b *models.UserProfile) *float64 {
	if !a.HasCoordinates() || !b.HasCoordinates() {
		return nil
	}
	distance := utils.Round2(utils.CalculateDistance(*a.Latitude, *a.Longitude, *b.Latitude, *b.Longitude))
	return &distance
}
