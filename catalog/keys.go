package catalog

// Key prefixes for different data types
const (
	recordPrefix = "catrec"
	revisionKey  = "catmeta:rev"
)

// makeRecordKey generates a key for a catalog record by ID.
func makeRecordKey(id string) []byte {
	return []byte(recordPrefix + ":" + id)
}

// recordKeyPrefix returns the prefix shared by all record keys. Record IDs
// sort lexicographically under it, so a prefix scan yields ascending ID
// order.
func recordKeyPrefix() []byte {
	return []byte(recordPrefix + ":")
}
