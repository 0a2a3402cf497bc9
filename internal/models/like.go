package models

// HasLike reports whether userID is in the like-set.
func HasLike(likes []string, userID string) bool {
	for _, id := range likes {
		if id == userID {
			return true
		}
	}
	return false
}

// ToggleLike removes userID from the like-set when present and appends it
// otherwise. The input slice is never modified.
func ToggleLike(likes []string, userID string) []string {
	if HasLike(likes, userID) {
		out := make([]string, 0, len(likes)-1)
		for _, id := range likes {
			if id != userID {
				out = append(out, id)
			}
		}
		return out
	}
	out := make([]string, len(likes), len(likes)+1)
	copy(out, likes)
	return append(out, userID)
}
