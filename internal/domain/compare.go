package domain

import "time"

// MoreRecent reports whether record A (dateA, idA) is a more recent snapshot
// than record B: the later date wins, and equal dates fall back to the higher
// numeric id (serial ids grow monotonically, so the higher id was written last).
// Both the latest-caución selection and the ledger dedupe tie-break use this
// rule, so it lives here rather than in either usecase.
func MoreRecent(dateA time.Time, idA int64, dateB time.Time, idB int64) bool {
	if !dateA.Equal(dateB) {
		return dateA.After(dateB)
	}
	return idA > idB
}
