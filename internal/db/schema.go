package db

// Schema SQL for the five logical databases (§6). Each is the single
// source of truth for its store; tests load it the same way production
// bootstrap does, so there is no separate hand-maintained test schema to
// drift out of sync.

const systemSchema = `
CREATE TABLE IF NOT EXISTS system_mode (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	mode TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	reason TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS heartbeats (
	component TEXT PRIMARY KEY,
	last_beat TEXT NOT NULL,
	status TEXT NOT NULL
);
`

const researchSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT,
	status TEXT NOT NULL CHECK(status IN ('pending','processing','completed','failed')),
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	completed_at TEXT,
	error_message TEXT
);
`

const managementSchema = `
CREATE TABLE IF NOT EXISTS escalations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	code TEXT NOT NULL UNIQUE,
	level TEXT NOT NULL CHECK(level IN ('L1','L2','L3','L4')),
	state TEXT NOT NULL CHECK(state IN ('DETECTED','NOTIFIED','REMINDED','ACKNOWLEDGED','RESOLVED','EXPIRED')),
	message TEXT NOT NULL,
	created_at TEXT NOT NULL,
	notified_at TEXT,
	reminded_at TEXT,
	acknowledged_at TEXT,
	resolved_at TEXT,
	resolution_note TEXT,
	assigned_director TEXT
);

CREATE TABLE IF NOT EXISTS config (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`

const sharedSchema = `
CREATE TABLE IF NOT EXISTS reports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	type TEXT NOT NULL,
	path TEXT NOT NULL,
	generated_at TEXT NOT NULL
);
`

const auditSchema = `
CREATE TABLE IF NOT EXISTS log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT NOT NULL,
	role TEXT NOT NULL,
	action TEXT NOT NULL,
	target TEXT,
	details TEXT,
	checksum TEXT NOT NULL
);
`

// schemas maps each logical database name to its bootstrap SQL.
var schemas = map[string]string{
	"system":     systemSchema,
	"research":   researchSchema,
	"management": managementSchema,
	"shared":     sharedSchema,
	"audit":      auditSchema,
}

// Names lists every logical database name, in the order §6 presents them.
func Names() []string {
	return []string{"system", "research", "management", "shared", "audit"}
}
