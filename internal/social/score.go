package social

import "math"

// The popularity score of a user is
//
//	uniqueFriendCount + 0.5 * totalSharedHobbies
//
// rounded half away from zero at the tenths digit. A hobby shared with two
// different friends contributes twice, and duplicate hobby entries within a
// user's own list are not deduplicated before the comparison. Both quirks
// are part of the contract and must not be "fixed" here.

// PopularityScore computes the score for one user from pre-fetched full
// user and friendship lists. Use this when scoring many users at once to
// avoid one store round trip per user. It must agree with
// Service.ScoreForUser for the same underlying data; both call computeScore.
func PopularityScore(user User, allUsers []User, friendships []Friendship) float64 {
	friendIDs := FriendIDs(user.ID, friendships)

	byID := make(map[string]User, len(allUsers))
	for _, u := range allUsers {
		byID[u.ID] = u
	}

	hobbyLists := make([][]string, 0, len(friendIDs))
	for _, id := range friendIDs {
		friend, ok := byID[id]
		if !ok {
			continue
		}
		hobbyLists = append(hobbyLists, friend.Hobbies)
	}

	return computeScore(uniqueCount(friendIDs), user.Hobbies, hobbyLists)
}

// FriendIDs resolves the friend ID list for userID from an edge list: for
// every edge touching userID, the endpoint that is not userID.
func FriendIDs(userID string, friendships []Friendship) []string {
	ids := make([]string, 0)
	for _, f := range friendships {
		switch userID {
		case f.UserIDA:
			ids = append(ids, f.UserIDB)
		case f.UserIDB:
			ids = append(ids, f.UserIDA)
		}
	}
	return ids
}

// computeScore is the shared scoring kernel. The batch and single-user
// entry points differ only in how they resolve friendHobbyLists.
func computeScore(uniqueFriendCount int, userHobbies []string, friendHobbyLists [][]string) float64 {
	if uniqueFriendCount == 0 {
		return 0
	}

	totalShared := 0
	for _, friendHobbies := range friendHobbyLists {
		totalShared += sharedHobbyCount(userHobbies, friendHobbies)
	}

	score := float64(uniqueFriendCount) + 0.5*float64(totalShared)
	return math.Round(score*10) / 10
}

// sharedHobbyCount counts the entries of hobbies that also appear in
// friendHobbies. Each entry counts, so a duplicate in hobbies counts twice.
func sharedHobbyCount(hobbies, friendHobbies []string) int {
	if len(hobbies) == 0 || len(friendHobbies) == 0 {
		return 0
	}

	friendSet := make(map[string]struct{}, len(friendHobbies))
	for _, h := range friendHobbies {
		friendSet[h] = struct{}{}
	}

	count := 0
	for _, h := range hobbies {
		if _, ok := friendSet[h]; ok {
			count++
		}
	}
	return count
}

func uniqueCount(ids []string) int {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}
