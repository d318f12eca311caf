// Package database handles SQL connections and schema inspection.
//
// It wraps GORM to configure MySQL or SQLite connections for the SQL facet store.
//
// # Connect
//
// Connect opens the pool, applies pool limits and pings the server once within the
// configured timeout. SQLite in-memory databases are pinned to a single connection.
//
// # Schema Inspection
//
// GetTableColumns reads the live column definitions of a table so the facet store
// can compare them against its GORM models.
//
// # Usage
//
//	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: "facets.db"})
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "contact_facets")
package database
