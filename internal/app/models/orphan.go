package models

import "time"

// OrphanedObject records a stored object that has no catalog row.
// Written when the compensating delete after a failed catalog insert also
// failed; the sweep job retries the delete and clears the record.
type OrphanedObject struct {
	ID        int64     `db:"id"`
	ObjectKey string    `db:"object_key"`
	Reason    string    `db:"reason"`
	CreatedAt time.Time `db:"created_at"`
}
