package models

// DiscoveryCandidate is one ranked entry of a discovery response.
type DiscoveryCandidate struct {
	Profile            UserProfile `json:"profile"`
	CompatibilityScore int         `json:"compatibilityScore"`
	DistanceKM         *float64    `json:"distanceKm,omitempty"`
}
