package repos

import (
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Ensure seller accounts exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Hardware scans pushed by the scanner appliance
CREATE TABLE IF NOT EXISTS scans(
  id TEXT PRIMARY KEY,
  brand TEXT NOT NULL DEFAULT '',
  model TEXT NOT NULL DEFAULT '',
  cpu TEXT NOT NULL DEFAULT '',
  cores TEXT NOT NULL DEFAULT '',
  threads TEXT NOT NULL DEFAULT '',
  base_speed_mhz TEXT NOT NULL DEFAULT '',
  ram_gb TEXT NOT NULL DEFAULT '',
  ram_speed_mhz TEXT NOT NULL DEFAULT '',
  ram_type TEXT NOT NULL DEFAULT '',
  storage_json TEXT NOT NULL DEFAULT '[]',
  gpu TEXT NOT NULL DEFAULT '',
  display_resolution TEXT NOT NULL DEFAULT '',
  screen_size_inch REAL NOT NULL DEFAULT 0,
  os TEXT NOT NULL DEFAULT '',
  scan_time TEXT NOT NULL DEFAULT '',
  title TEXT NOT NULL DEFAULT '',
  price TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','published')),
  published_at TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
  updated_at TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_scans_status     ON scans(status);
CREATE INDEX IF NOT EXISTS idx_scans_created_at ON scans(created_at);

-- Marketplace listings (draft/published/sold)
CREATE TABLE IF NOT EXISTS listings(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL DEFAULT '',
  title TEXT NOT NULL DEFAULT '',
  brand TEXT NOT NULL DEFAULT '',
  model TEXT NOT NULL DEFAULT '',
  cpu TEXT NOT NULL DEFAULT '',
  ram_gb TEXT NOT NULL DEFAULT '',
  ram_type TEXT NOT NULL DEFAULT '',
  ram_speed_mhz TEXT NOT NULL DEFAULT '',
  storage_json TEXT NOT NULL DEFAULT '[]',
  gpu TEXT NOT NULL DEFAULT '',
  display_resolution TEXT NOT NULL DEFAULT '',
  screen_size_inch REAL NOT NULL DEFAULT 0,
  os TEXT NOT NULL DEFAULT '',
  price NUMERIC NULL CHECK (price IS NULL OR price >= 0),
  description TEXT NOT NULL DEFAULT '',
  images_json TEXT NOT NULL DEFAULT '[]',
  status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft','published','sold')),
  created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
  updated_at TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_listings_status     ON listings(status);
CREATE INDEX IF NOT EXISTS idx_listings_user       ON listings(user_id);
CREATE INDEX IF NOT EXISTS idx_listings_created_at ON listings(created_at);

-- Sale receipts; soft-deleted via deleted_at, never mutated otherwise
CREATE TABLE IF NOT EXISTS receipts(
  id TEXT PRIMARY KEY,
  listing_id TEXT NULL,
  receipt_number TEXT NOT NULL,
  buyer_name TEXT NOT NULL,
  buyer_phone TEXT NOT NULL,
  buyer_address TEXT NOT NULL DEFAULT '',
  purchase_price NUMERIC NOT NULL,
  seller_signature TEXT NOT NULL DEFAULT '',
  pc_specs_json TEXT NOT NULL DEFAULT '',
  notes TEXT NOT NULL DEFAULT '',
  sale_date TEXT NOT NULL,
  deleted_at TEXT NULL
);
CREATE INDEX IF NOT EXISTS idx_receipts_sale_date ON receipts(sale_date);
CREATE INDEX IF NOT EXISTS idx_receipts_listing   ON receipts(listing_id);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

// seedUsers ensures a seller and an admin exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-seller", "seller@royalsmart.test", "Seller", "USER", "Passw0rd!"),
		mk("u-admin", "admin@royalsmart.test", "Admin", "ADMIN", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
