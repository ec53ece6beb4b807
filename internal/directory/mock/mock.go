// Package mock provides an in-memory mock implementation of
// [directory.Store] for use in unit tests.
//
// The mock is safe for concurrent use, records method calls, and exposes
// exported fields for configuring return values.
package mock

import (
	"context"
	"sync"

	"github.com/kabalen/tanong/internal/directory"
)

// OfficerCall records the arguments of one [Store.Officer] invocation.
type OfficerCall struct {
	OrgCode    string
	PositionID string
}

// CommitteeCall records the arguments of one [Store.Committee] invocation.
type CommitteeCall struct {
	OrgCode     string
	CommitteeID string
}

// Store is a mock implementation of [directory.Store].
type Store struct {
	mu sync.Mutex

	// OfficerResult and OfficerErr are returned by [Store.Officer].
	OfficerResult *directory.Officer
	OfficerErr    error

	// OfficersResult and OfficersErr are returned by [Store.Officers].
	OfficersResult *directory.OfficerList
	OfficersErr    error

	// CommitteeResult and CommitteeErr are returned by [Store.Committee].
	CommitteeResult *directory.Committee
	CommitteeErr    error

	// RoomStatsResult and RoomStatsErr are returned by [Store.RoomStatistics].
	RoomStatsResult *directory.RoomStats
	RoomStatsErr    error

	// PingErr is returned by [Store.Ping].
	PingErr error

	// Recorded calls.
	OfficerCalls   []OfficerCall
	OfficersCalls  []string
	CommitteeCalls []CommitteeCall
	RoomStatsCalls int
}

// Compile-time interface check.
var _ directory.Store = (*Store)(nil)

func (s *Store) Officer(_ context.Context, orgCode, positionID string) (*directory.Officer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.OfficerCalls = append(s.OfficerCalls, OfficerCall{OrgCode: orgCode, PositionID: positionID})
	return s.OfficerResult, s.OfficerErr
}

func (s *Store) Officers(_ context.Context, orgCode string) (*directory.OfficerList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.OfficersCalls = append(s.OfficersCalls, orgCode)
	return s.OfficersResult, s.OfficersErr
}

func (s *Store) Committee(_ context.Context, orgCode, committeeID string) (*directory.Committee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CommitteeCalls = append(s.CommitteeCalls, CommitteeCall{OrgCode: orgCode, CommitteeID: committeeID})
	return s.CommitteeResult, s.CommitteeErr
}

func (s *Store) RoomStatistics(_ context.Context) (*directory.RoomStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RoomStatsCalls++
	return s.RoomStatsResult, s.RoomStatsErr
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.PingErr
}
