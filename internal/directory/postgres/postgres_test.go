package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ---------------------------------------------------------------------------
// Test helpers — mock DB types
// ---------------------------------------------------------------------------

// mockRow implements pgx.Row for testing.
type mockRow struct {
	scanFunc func(dest ...any) error
}

func (r *mockRow) Scan(dest ...any) error { return r.scanFunc(dest...) }

// mockRows implements pgx.Rows for testing.
type mockRows struct {
	data   [][]any
	idx    int
	err    error
	closed bool
}

func (r *mockRows) Close()                                       { r.closed = true }
func (r *mockRows) Err() error                                   { return r.err }
func (r *mockRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *mockRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *mockRows) RawValues() [][]byte                          { return nil }
func (r *mockRows) Conn() *pgx.Conn                              { return nil }

func (r *mockRows) Next() bool {
	if r.idx >= len(r.data) {
		return false
	}
	r.idx++
	return true
}

func (r *mockRows) Scan(dest ...any) error {
	row := r.data[r.idx-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: expected %d columns, got %d destinations", len(row), len(dest))
	}
	for i, v := range row {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *int:
			*d = v.(int)
		default:
			return fmt.Errorf("scan: unsupported type at index %d: %T", i, dest[i])
		}
	}
	return nil
}

func (r *mockRows) Values() ([]any, error) { return nil, nil }

// scanInto fills string and int destinations from vals in order.
func scanInto(vals ...any) func(dest ...any) error {
	return func(dest ...any) error {
		if len(dest) != len(vals) {
			return fmt.Errorf("scan: expected %d columns, got %d destinations", len(vals), len(dest))
		}
		for i, v := range vals {
			switch d := dest[i].(type) {
			case *string:
				*d = v.(string)
			case *int:
				*d = v.(int)
			default:
				return fmt.Errorf("scan: unsupported type at index %d: %T", i, dest[i])
			}
		}
		return nil
	}
}

// mockDB implements the DB interface for testing.
type mockDB struct {
	queryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row
	queryFunc    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	execFunc     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (m *mockDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.queryRowFunc != nil {
		return m.queryRowFunc(ctx, sql, args...)
	}
	return &mockRow{scanFunc: func(dest ...any) error { return pgx.ErrNoRows }}
}

func (m *mockDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if m.queryFunc != nil {
		return m.queryFunc(ctx, sql, args...)
	}
	return &mockRows{}, nil
}

func (m *mockDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if m.execFunc != nil {
		return m.execFunc(ctx, sql, args...)
	}
	return pgconn.CommandTag{}, nil
}

// ---------------------------------------------------------------------------
// Store tests
// ---------------------------------------------------------------------------

func TestOfficer(t *testing.T) {
	t.Parallel()
	var gotArgs []any
	db := &mockDB{
		queryRowFunc: func(_ context.Context, _ string, args ...any) pgx.Row {
			gotArgs = args
			return &mockRow{scanFunc: scanInto("Maria Santos", "President", "Central Student Council")}
		},
	}

	off, err := New(db).Officer(context.Background(), "CSC", "president")
	if err != nil {
		t.Fatalf("Officer: %v", err)
	}
	if off.Name != "Maria Santos" || off.PositionTitle != "President" || off.OrgName != "Central Student Council" {
		t.Errorf("Officer = %+v", off)
	}
	if len(gotArgs) != 2 || gotArgs[0] != "CSC" || gotArgs[1] != "president" {
		t.Errorf("query args = %v", gotArgs)
	}
}

func TestOfficer_NoRows(t *testing.T) {
	t.Parallel()
	off, err := New(&mockDB{}).Officer(context.Background(), "CSC", "auditor")
	if err != nil {
		t.Fatalf("Officer: %v", err)
	}
	if off != nil {
		t.Errorf("Officer = %+v, want nil on miss", off)
	}
}

func TestOfficer_QueryError(t *testing.T) {
	t.Parallel()
	dbErr := errors.New("connection refused")
	db := &mockDB{
		queryRowFunc: func(context.Context, string, ...any) pgx.Row {
			return &mockRow{scanFunc: func(...any) error { return dbErr }}
		},
	}

	_, err := New(db).Officer(context.Background(), "CSC", "president")
	if !errors.Is(err, dbErr) {
		t.Fatalf("Officer error = %v, want wrapped %v", err, dbErr)
	}
	if !strings.Contains(err.Error(), "directory:") {
		t.Errorf("error %q missing package prefix", err)
	}
}

func TestOfficers(t *testing.T) {
	t.Parallel()
	rows := &mockRows{data: [][]any{
		{"Maria Santos", "President"},
		{"Juan Dela Cruz", "Vice President"},
	}}
	db := &mockDB{
		queryRowFunc: func(context.Context, string, ...any) pgx.Row {
			return &mockRow{scanFunc: scanInto("Central Student Council")}
		},
		queryFunc: func(context.Context, string, ...any) (pgx.Rows, error) {
			return rows, nil
		},
	}

	list, err := New(db).Officers(context.Background(), "CSC")
	if err != nil {
		t.Fatalf("Officers: %v", err)
	}
	if list.OrgName != "Central Student Council" {
		t.Errorf("OrgName = %q", list.OrgName)
	}
	if len(list.Officers) != 2 || list.Officers[1].Position != "Vice President" {
		t.Errorf("Officers = %+v", list.Officers)
	}
	if !rows.closed {
		t.Error("rows not closed")
	}
}

func TestOfficers_UnknownOrg(t *testing.T) {
	t.Parallel()
	list, err := New(&mockDB{}).Officers(context.Background(), "NOPE")
	if err != nil {
		t.Fatalf("Officers: %v", err)
	}
	if list != nil {
		t.Errorf("Officers = %+v, want nil on unknown org", list)
	}
}

func TestOfficers_RowsError(t *testing.T) {
	t.Parallel()
	rowsErr := errors.New("stream interrupted")
	db := &mockDB{
		queryRowFunc: func(context.Context, string, ...any) pgx.Row {
			return &mockRow{scanFunc: scanInto("Central Student Council")}
		},
		queryFunc: func(context.Context, string, ...any) (pgx.Rows, error) {
			return &mockRows{err: rowsErr}, nil
		},
	}

	_, err := New(db).Officers(context.Background(), "CSC")
	if !errors.Is(err, rowsErr) {
		t.Fatalf("Officers error = %v, want wrapped %v", err, rowsErr)
	}
}

func TestCommittee(t *testing.T) {
	t.Parallel()
	db := &mockDB{
		queryRowFunc: func(context.Context, string, ...any) pgx.Row {
			return &mockRow{scanFunc: scanInto("Events Committee", "Central Student Council")}
		},
		queryFunc: func(context.Context, string, ...any) (pgx.Rows, error) {
			return &mockRows{data: [][]any{{"Paolo Garcia"}, {"Liza Mendoza"}}}, nil
		},
	}

	com, err := New(db).Committee(context.Background(), "CSC", "events")
	if err != nil {
		t.Fatalf("Committee: %v", err)
	}
	if com.CommitteeTitle != "Events Committee" || com.OrgName != "Central Student Council" {
		t.Errorf("Committee = %+v", com)
	}
	if len(com.Members) != 2 || com.Members[0] != "Paolo Garcia" {
		t.Errorf("Members = %v", com.Members)
	}
}

func TestCommittee_NoRows(t *testing.T) {
	t.Parallel()
	com, err := New(&mockDB{}).Committee(context.Background(), "CSC", "finance")
	if err != nil {
		t.Fatalf("Committee: %v", err)
	}
	if com != nil {
		t.Errorf("Committee = %+v, want nil on miss", com)
	}
}

func TestRoomStatistics(t *testing.T) {
	t.Parallel()
	db := &mockDB{
		queryRowFunc: func(context.Context, string, ...any) pgx.Row {
			return &mockRow{scanFunc: scanInto(24, 9)}
		},
	}

	stats, err := New(db).RoomStatistics(context.Background())
	if err != nil {
		t.Fatalf("RoomStatistics: %v", err)
	}
	if stats.Total != 24 || stats.Occupied != 9 || stats.Vacant != 15 {
		t.Errorf("stats = %+v, want {24 9 15}", stats)
	}
}

func TestRoomStatistics_NoRowsIsError(t *testing.T) {
	t.Parallel()
	// COUNT(*) always yields a row; if it ever does not, surface the error
	// instead of synthesizing zeros.
	_, err := New(&mockDB{}).RoomStatistics(context.Background())
	if err == nil {
		t.Fatal("RoomStatistics: want error when the aggregate row is missing")
	}
}

func TestMigrate(t *testing.T) {
	t.Parallel()
	var gotSQL string
	db := &mockDB{
		execFunc: func(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
			gotSQL = sql
			return pgconn.CommandTag{}, nil
		},
	}

	if err := New(db).Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if gotSQL != Schema {
		t.Error("Migrate did not execute the schema DDL")
	}
}

func TestPing(t *testing.T) {
	t.Parallel()
	if err := New(&mockDB{}).Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}

	dbErr := errors.New("down")
	db := &mockDB{
		execFunc: func(context.Context, string, ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, dbErr
		},
	}
	if err := New(db).Ping(context.Background()); !errors.Is(err, dbErr) {
		t.Errorf("Ping error = %v, want wrapped %v", err, dbErr)
	}
}
