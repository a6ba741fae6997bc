package models

import "time"

// DBState reflects the identity and schema version of the backing database
type DBState struct {
	// Date the schema was first created
	CreateDate time.Time `db:"createdDate"`
	// Date of the most recent schema change
	ModifiedDate time.Time `db:"modifiedDate"`
	// Code should be using the same schema version as us
	SchemaVersion string `db:"schemaVersion"`
	// A unique id for this database instance
	Identifier string `db:"identifier"`
}
