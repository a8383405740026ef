package db

// Constraint names are shared by both dialects so that unique violations can
// be mapped back to a field (see UniqueViolation).
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		student_number TEXT,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('superadmin', 'organizer', 'student')),
		created_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT users_email_key UNIQUE (email),
		CONSTRAINT users_student_number_key UNIQUE (student_number)
	)`,
	`CREATE TABLE IF NOT EXISTS societies (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		society_head_id BIGINT NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT societies_name_key UNIQUE (name)
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		event_date TIMESTAMPTZ NOT NULL,
		location TEXT NOT NULL,
		capacity INTEGER NOT NULL CHECK (capacity > 0),
		is_paid BOOLEAN NOT NULL DEFAULT FALSE,
		cost DOUBLE PRECISION NOT NULL DEFAULT 0,
		society_id BIGINT REFERENCES societies(id),
		created_by BIGINT NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS registrations (
		id BIGSERIAL PRIMARY KEY,
		event_id BIGINT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		student_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		registration_date TIMESTAMPTZ NOT NULL,
		phone_number TEXT NOT NULL DEFAULT '',
		payment_method TEXT NOT NULL DEFAULT '',
		invoice_path TEXT NOT NULL DEFAULT '',
		CONSTRAINT registrations_event_student_key UNIQUE (event_id, student_id)
	)`,
	`CREATE INDEX IF NOT EXISTS registrations_student_idx ON registrations (student_id)`,
	`CREATE INDEX IF NOT EXISTS events_society_idx ON events (society_id)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		student_number TEXT,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('superadmin', 'organizer', 'student')),
		created_at DATETIME NOT NULL,
		CONSTRAINT users_email_key UNIQUE (email),
		CONSTRAINT users_student_number_key UNIQUE (student_number)
	)`,
	`CREATE TABLE IF NOT EXISTS societies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		society_head_id INTEGER NOT NULL REFERENCES users(id),
		created_at DATETIME NOT NULL,
		CONSTRAINT societies_name_key UNIQUE (name)
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		event_date DATETIME NOT NULL,
		location TEXT NOT NULL,
		capacity INTEGER NOT NULL CHECK (capacity > 0),
		is_paid BOOLEAN NOT NULL DEFAULT 0,
		cost REAL NOT NULL DEFAULT 0,
		society_id INTEGER REFERENCES societies(id),
		created_by INTEGER NOT NULL REFERENCES users(id),
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS registrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		student_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		registration_date DATETIME NOT NULL,
		phone_number TEXT NOT NULL DEFAULT '',
		payment_method TEXT NOT NULL DEFAULT '',
		invoice_path TEXT NOT NULL DEFAULT '',
		CONSTRAINT registrations_event_student_key UNIQUE (event_id, student_id)
	)`,
	`CREATE INDEX IF NOT EXISTS registrations_student_idx ON registrations (student_id)`,
	`CREATE INDEX IF NOT EXISTS events_society_idx ON events (society_id)`,
}
