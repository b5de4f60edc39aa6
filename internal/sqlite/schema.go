// Package sqlite implements the SQLite storage backend. Records are
// stored as JSON documents in a uniform layout, one row per record,
// keyed by (namespace, model, id); identifiers come from a counters
// table so they stay monotonic per (namespace, model) across reopens.
package sqlite

// Schema DDL. IF NOT EXISTS keeps reopening an existing store cheap.
const (
	createRecords = `CREATE TABLE IF NOT EXISTS records (
    namespace TEXT NOT NULL,
    model TEXT NOT NULL,
    id INTEGER NOT NULL,
    data TEXT NOT NULL,
    PRIMARY KEY (namespace, model, id)
);`

	createCounters = `CREATE TABLE IF NOT EXISTS counters (
    namespace TEXT NOT NULL,
    model TEXT NOT NULL,
    next_id INTEGER NOT NULL,
    PRIMARY KEY (namespace, model)
);`

	createStoreMeta = `CREATE TABLE IF NOT EXISTS store_meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`
)

var schemaDDL = []string{createRecords, createCounters, createStoreMeta}
