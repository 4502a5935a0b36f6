package social

import (
	apperrors "friendgraph/pkg/errors"
)

// CanonicalPair orders two user IDs into their canonical stored form:
// the lexicographically smaller ID first. Lexicographic comparison on the
// ID's string form is the total order that makes both request orderings of
// a pair map to the same stored edge, so the store's uniqueness constraint
// on (user_id_a, user_id_b) is what rejects a reverse duplicate link.
func CanonicalPair(idA, idB string) (low, high string) {
	if idA < idB {
		return idA, idB
	}
	return idB, idA
}

// ValidateLink checks a link (or unlink) request before canonicalization.
// Rules are checked in order: missing identifier, then self-link.
func ValidateLink(idA, idB string) error {
	if idA == "" || idB == "" {
		return apperrors.NewMissingField("user ID")
	}
	if idA == idB {
		return apperrors.NewSelfLink(idA)
	}
	return nil
}
