package store

const (
	plantPrefix     = "plant:"
	plantListPrefix = "plist:"
	userPrefix      = "user:"

	// idx:plantlists:member:{userID}:{listID} for owner and collaborators.
	listsByMemberPrefix = "idx:plantlists:member:"
	// idx:plants:lists:{plantID}:{listID} for cascading plant deletes.
	listsByPlantPrefix = "idx:plants:lists:"
)

func plantKey(id string) []byte {
	return []byte(plantPrefix + id)
}

func plantListKey(id string) []byte {
	return []byte(plantListPrefix + id)
}

func memberIndexPrefix(userID string) []byte {
	return []byte(listsByMemberPrefix + userID + ":")
}

func memberIndexKey(userID, listID string) []byte {
	return []byte(listsByMemberPrefix + userID + ":" + listID)
}

func plantIndexPrefix(plantID string) []byte {
	return []byte(listsByPlantPrefix + plantID + ":")
}

func plantIndexKey(plantID, listID string) []byte {
	return []byte(listsByPlantPrefix + plantID + ":" + listID)
}
