// Package models defines the data model persisted in the database.
package models

import "time"

// File is the attribute snapshot of one stored file row.
//
// Size always tracks the byte length of Blob; after creation it is computed
// by the store, never by the client. CreatedAt and UpdatedAt are UTC with
// second precision, and UpdatedAt always carries the store's clock value so
// concurrent writers with skewed clocks stay comparable.
type File struct {
	// ID is the server-assigned identity, set exactly once at creation.
	ID int64
	// Name is the display name, always non-empty.
	Name string
	// Blob is the raw byte payload, possibly empty.
	Blob []byte
	// Size is the byte length of Blob.
	Size int64

	CreatedAt time.Time
	UpdatedAt time.Time
}
