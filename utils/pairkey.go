package utils

// CanonicalPairKey builds an order-independent identifier for two user ids:
// the pair sorted lexicographically and joined with '#'. Used for the
// compatibility cache keys and the Match uniqueness constraint.
func CanonicalPairKey(userA, userB string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return userA + "#" + userB
}

// SortPair returns the two ids in canonical (lexicographic) order.
func SortPair(userA, userB string) (string, string) {
	if userB < userA {
		return userB, userA
	}
	return userA, userB
}
