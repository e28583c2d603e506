package domain

// CanAccessPlant reports whether any of lists grants userID access to plantID.
// lists is typically the result of a member lookup, but lists the user is not
// allowed on are ignored so callers may pass any set.
func CanAccessPlant(lists []*PlantList, userID, plantID string) bool {
	for _, l := range lists {
		if l.IsUserAllowed(userID) && l.ContainsPlant(plantID) {
			return true
		}
	}
	return false
}

// AccessiblePlantIDs returns the union of plant ids across every list userID
// is allowed on, deduplicated, in first-seen order.
func AccessiblePlantIDs(lists []*PlantList, userID string) []string {
	seen := make(map[string]struct{})
	ids := []string{}
	for _, l := range lists {
		if !l.IsUserAllowed(userID) {
			continue
		}
		for _, pid := range l.PlantIDs {
			if _, ok := seen[pid]; ok {
				continue
			}
			seen[pid] = struct{}{}
			ids = append(ids, pid)
		}
	}
	return ids
}
