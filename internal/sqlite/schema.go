package sqlite

// Schema DDL for the stub backend tables.
const (
	createLocation = `CREATE TABLE IF NOT EXISTS location (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    country TEXT NOT NULL,
    city TEXT NOT NULL,
    location_code TEXT NOT NULL UNIQUE,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createTransportation = `CREATE TABLE IF NOT EXISTS transportation (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    origin_id TEXT NOT NULL,
    destination_id TEXT NOT NULL,
    transportation_type TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    FOREIGN KEY (origin_id) REFERENCES location(id),
    FOREIGN KEY (destination_id) REFERENCES location(id)
);`

	createOperatingDay = `CREATE TABLE IF NOT EXISTS transportation_operating_day (
    transportation_id INTEGER NOT NULL,
    operating_day INTEGER NOT NULL CHECK (operating_day BETWEEN 0 AND 6),
    PRIMARY KEY (transportation_id, operating_day),
    FOREIGN KEY (transportation_id) REFERENCES transportation(id) ON DELETE CASCADE
);`
)

// Index DDL for common queries.
const (
	idxTransportationOrigin      = `CREATE INDEX IF NOT EXISTS idx_transportation_origin ON transportation(origin_id);`
	idxTransportationDestination = `CREATE INDEX IF NOT EXISTS idx_transportation_destination ON transportation(destination_id);`
	idxOperatingDay              = `CREATE INDEX IF NOT EXISTS idx_operating_day ON transportation_operating_day(operating_day);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createLocation,
	createTransportation,
	createOperatingDay,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxTransportationOrigin,
	idxTransportationDestination,
	idxOperatingDay,
}
