// Package postgres implements [directory.Store] backed by a PostgreSQL
// database, the deployment used when the assistant shares the campus
// portal's primary database.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kabalen/tanong/internal/directory"
)

// Schema is the SQL DDL for the directory tables. Execute it via
// [Store.Migrate] or apply it manually during deployment.
const Schema = `
CREATE TABLE IF NOT EXISTS organizations (
    code TEXT PRIMARY KEY,
    name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS officers (
    org_code       TEXT NOT NULL REFERENCES organizations(code),
    position_id    TEXT NOT NULL,
    position_title TEXT NOT NULL,
    name           TEXT NOT NULL,
    ordinal        INT  NOT NULL DEFAULT 0,
    PRIMARY KEY (org_code, position_id)
);
CREATE TABLE IF NOT EXISTS committees (
    org_code     TEXT NOT NULL REFERENCES organizations(code),
    committee_id TEXT NOT NULL,
    title        TEXT NOT NULL,
    PRIMARY KEY (org_code, committee_id)
);
CREATE TABLE IF NOT EXISTS committee_members (
    org_code     TEXT NOT NULL,
    committee_id TEXT NOT NULL,
    name         TEXT NOT NULL,
    ordinal      INT  NOT NULL DEFAULT 0,
    FOREIGN KEY (org_code, committee_id) REFERENCES committees(org_code, committee_id)
);
CREATE TABLE IF NOT EXISTS rooms (
    number   TEXT PRIMARY KEY,
    building TEXT NOT NULL DEFAULT '',
    occupied BOOLEAN NOT NULL DEFAULT FALSE
);
`

// DB is the database interface used by [Store]. Both *pgxpool.Pool and
// *pgx.Conn satisfy this interface.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store is a [directory.Store] backed by PostgreSQL.
type Store struct {
	db DB
}

// Compile-time interface check.
var _ directory.Store = (*Store)(nil)

// New creates a Store using the given connection or pool. The caller is
// responsible for calling [Store.Migrate] to ensure the schema exists
// before issuing queries.
func New(db DB) *Store {
	return &Store{db: db}
}

// Migrate executes the [Schema] DDL, creating the directory tables if they
// do not already exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("directory: migrate: %w", err)
	}
	return nil
}

// Officer returns the office holder for org and position, or (nil, nil)
// when the pair has no row.
func (s *Store) Officer(ctx context.Context, orgCode, positionID string) (*directory.Officer, error) {
	const query = `
		SELECT o.name, o.position_title, org.name
		FROM officers o
		JOIN organizations org ON org.code = o.org_code
		WHERE o.org_code = $1 AND o.position_id = $2`

	var off directory.Officer
	err := s.db.QueryRow(ctx, query, orgCode, positionID).Scan(&off.Name, &off.PositionTitle, &off.OrgName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
	err := s.db.QueryRow(ctx, `SELECT name FROM organizations WHERE code = $1`, orgCode).Scan(&orgName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("directory: organization %s: %w", orgCode, err)
	}

	rows, err := s.db.Query(ctx, `
		SELECT name, position_title
		FROM officers
		WHERE org_code = $1
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
		WHERE c.org_code = $1 AND c.committee_id = $2`

	var com directory.Committee
	err := s.db.QueryRow(ctx, query, orgCode, committeeID).Scan(&com.CommitteeTitle, &com.OrgName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("directory: committee %s/%s: %w", orgCode, committeeID, err)
	}

	rows, err := s.db.Query(ctx, `
		SELECT name
		FROM committee_members
		WHERE org_code = $1 AND committee_id = $2
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

// RoomStatistics returns campus-wide room occupancy counts. An empty rooms
// table is a valid result, not a miss.
func (s *Store) RoomStatistics(ctx context.Context) (*directory.RoomStats, error) {
	const query = `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE occupied)
		FROM rooms`

	var stats directory.RoomStats
	if err := s.db.QueryRow(ctx, query).Scan(&stats.Total, &stats.Occupied); err != nil {
		return nil, fmt.Errorf("directory: room statistics: %w", err)
	}
	stats.Vacant = stats.Total - stats.Occupied
	return &stats, nil
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `SELECT 1`); err != nil {
		return fmt.Errorf("directory: ping: %w", err)
	}
	return nil
}
