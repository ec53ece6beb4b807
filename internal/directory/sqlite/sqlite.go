// Package sqlite implements [directory.Store] on an embedded SQLite
// database (modernc.org/sqlite, no cgo). It is the default backend for
// single-binary deployments where the assistant does not share the portal's
// PostgreSQL instance.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/kabalen/tanong/internal/directory"
)

// Schema is the SQLite DDL for the directory tables.
const Schema = `
CREATE TABLE IF NOT EXISTS organizations (
    code TEXT PRIMARY KEY,
    name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS officers (
    org_code       TEXT NOT NULL,
    position_id    TEXT NOT NULL,
    position_title TEXT NOT NULL,
    name           TEXT NOT NULL,
    ordinal        INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (org_code, position_id)
);
CREATE TABLE IF NOT EXISTS committees (
    org_code     TEXT NOT NULL,
    committee_id TEXT NOT NULL,
    title        TEXT NOT NULL,
    PRIMARY KEY (org_code, committee_id)
);
CREATE TABLE IF NOT EXISTS committee_members (
    org_code     TEXT NOT NULL,
    committee_id TEXT NOT NULL,
    name         TEXT NOT NULL,
    ordinal      INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS rooms (
    number   TEXT PRIMARY KEY,
    building TEXT NOT NULL DEFAULT '',
    occupied INTEGER NOT NULL DEFAULT 0
);
`

// Store is a [directory.Store] backed by an embedded SQLite database.
type Store struct {
	db *sql.DB
}

// Compile-time interface check.
var _ directory.Store = (*Store)(nil)

// Open opens (creating if necessary) the SQLite database at path and
// returns a migrated Store. Use ":memory:" for an ephemeral database in
// tests. The caller owns the store and must call [Store.Close].
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("directory: open sqlite %q: %w", path, err)
	}
	if path == ":memory:" {
		// Every pooled connection to :memory: would otherwise see its own
		// empty database.
		db.SetMaxOpenConns(1)
	}
	s := &Store{db: db}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing database handle. The caller remains responsible
// for migrations and for closing the handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate executes the [Schema] DDL.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("directory: migrate sqlite: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Officer returns the office holder for org and position, or (nil, nil)
// when the pair has no row.
func (s *Store) Officer(ctx context.Context, orgCode, positionID string) (*directory.Officer, error) {
	const query = `
		SELECT o.name, o.position_title, org.name
		FROM officers o
		JOIN organizations org ON org.code = o.org_code
		WHERE o.org_code = ? AND o.position_id = ?`

	var off directory.Officer
	err := s.db.QueryRowContext(ctx, query, orgCode, positionID).Scan(&off.Name, &off.PositionTitle, &off.OrgName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("directory: officer %s/%s: %w", orgCode, positionID, err)
	}
	return &off, nil
}

// Officers returns the organization's roster ordered by the stored ordinal,
// or (nil, nil) when the organization is unknown.
func (s *Store) Officers(ctx context.Context, orgCode string) (*directory.OfficerList, error) {
	var orgName string
	err := s.db.QueryRowContext(ctx, `SELECT name FROM organizations WHERE code = ?`, orgCode).Scan(&orgName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("directory: organization %s: %w", orgCode, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, position_title
		FROM officers
		WHERE org_code = ?
		ORDER BY ordinal, position_id`, orgCode)
	if err != nil {
		return nil, fmt.Errorf("directory: officers %s: %w", orgCode, err)
	}
	defer rows.Close()

	list := &directory.OfficerList{OrgName: orgName}
	for rows.Next() {
		var e directory.OfficerEntry
		if err := rows.Scan(&e.Name, &e.Position); err != nil {
			return nil, fmt.Errorf("directory: officers %s: scan: %w", orgCode, err)
		}
		list.Officers = append(list.Officers, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("directory: officers %s: %w", orgCode, err)
	}
	return list, nil
}

// Committee returns one committee's roster, or (nil, nil) when the
// organization has no such committee.
func (s *Store) Committee(ctx context.Context, orgCode, committeeID string) (*directory.Committee, error) {
	const query = `
		SELECT c.title, org.name
		FROM committees c
		JOIN organizations org ON org.code = c.org_code
		WHERE c.org_code = ? AND c.committee_id = ?`

	var com directory.Committee
	err := s.db.QueryRowContext(ctx, query, orgCode, committeeID).Scan(&com.CommitteeTitle, &com.OrgName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("directory: committee %s/%s: %w", orgCode, committeeID, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name
		FROM committee_members
		WHERE org_code = ? AND committee_id = ?
		ORDER BY ordinal, name`, orgCode, committeeID)
	if err != nil {
		return nil, fmt.Errorf("directory: committee members %s/%s: %w", orgCode, committeeID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("directory: committee members %s/%s: scan: %w", orgCode, committeeID, err)
		}
		com.Members = append(com.Members, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("directory: committee members %s/%s: %w", orgCode, committeeID, err)
	}
	return &com, nil
}

// RoomStatistics returns campus-wide room occupancy counts.
func (s *Store) RoomStatistics(ctx context.Context) (*directory.RoomStats, error) {
	const query = `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN occupied != 0 THEN 1 ELSE 0 END), 0)
		FROM rooms`

	var stats directory.RoomStats
	if err := s.db.QueryRowContext(ctx, query).Scan(&stats.Total, &stats.Occupied); err != nil {
		return nil, fmt.Errorf("directory: room statistics: %w", err)
	}
	stats.Vacant = stats.Total - stats.Occupied
	return &stats, nil
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("directory: ping: %w", err)
	}
	return nil
}
