package repositories

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockForUpdate takes a row-level lock so read-modify-write sequences on the
// same row serialize. sqlite (the test driver) has no FOR UPDATE; its writes
// serialize on the database handle instead.
func LockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
