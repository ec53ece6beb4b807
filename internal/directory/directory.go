// Package directory defines the campus data collaborators the response
// dispatcher consults for dynamic intents: officer lookups, officer rosters,
// committee rosters, and room occupancy statistics.
//
// Implementations follow a miss-versus-failure contract: a lookup that
// completes but finds nothing returns (nil, nil), while an internal error
// returns a non-nil error. The dispatcher turns misses into specific
// "not found" replies and failures into a generic apology; neither ever
// reaches the end user as a raw error.
package directory

import "context"

// Officer is a single named office holder.
type Officer struct {
	// Name is the person's display name.
	Name string

	// PositionTitle is the human-readable title as stored ("Vice President"),
	// not the canonical position ID used for lookups.
	PositionTitle string

	// OrgName is the organization's display name.
	OrgName string
}

// OfficerEntry is one row of an organization's officer roster.
type OfficerEntry struct {
	Name     string
	Position string
}

// OfficerList is an organization's full officer roster.
type OfficerList struct {
	OrgName  string
	Officers []OfficerEntry
}

// Committee is a committee roster within an organization.
type Committee struct {
	OrgName        string
	CommitteeTitle string
	Members        []string
}

// RoomStats summarises campus room occupancy.
type RoomStats struct {
	Total    int
	Occupied int
	Vacant   int
}

// Store is the campus directory consulted by dynamic intents. All methods
// respect context cancellation and return (nil, nil) on a clean miss.
type Store interface {
	// Officer returns the office holder for the given organization code and
	// canonical position ID.
	Officer(ctx context.Context, orgCode, positionID string) (*Officer, error)

	// Officers returns the full officer roster of the organization.
	Officers(ctx context.Context, orgCode string) (*OfficerList, error)

	// Committee returns the roster of one committee within the organization.
	Committee(ctx context.Context, orgCode, committeeID string) (*Committee, error)

	// RoomStatistics returns campus-wide room occupancy counts.
	RoomStatistics(ctx context.Context) (*RoomStats, error)

	// Ping probes the underlying store for readiness checks.
	Ping(ctx context.Context) error
}
