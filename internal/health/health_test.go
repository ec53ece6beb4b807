package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func healthyCheck(_ context.Context) error { return nil }

func failingCheck(msg string) func(context.Context) error {
	return func(_ context.Context) error { return errors.New(msg) }
}

func probe(t *testing.T, fn http.HandlerFunc, path string) (*httptest.ResponseRecorder, probeResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	fn(rec, httptest.NewRequest("GET", path, nil))
	var body probeResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode %s response: %v", path, err)
	}
	return rec, body
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	h := New(Checker{Name: "directory", Check: failingCheck("down")})

	// Liveness ignores checkers; only readiness consults them.
	rec, body := probe(t, h.Healthz, "/healthz")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if body.Status != "ok" {
		t.Errorf("body status = %q, want ok", body.Status)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestReadyz(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		checkers   []Checker
		wantCode   int
		wantStatus string
		wantChecks map[string]string
	}{
		{
			name:       "no checkers",
			wantCode:   http.StatusOK,
			wantStatus: "ok",
		},
		{
			name: "all pass",
			checkers: []Checker{
				{Name: "directory", Check: healthyCheck},
				{Name: "lexicon", Check: healthyCheck},
			},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
			wantChecks: map[string]string{"directory": "ok", "lexicon": "ok"},
		},
		{
			name: "directory down",
			checkers: []Checker{
				{Name: "directory", Check: failingCheck("connection refused")},
				{Name: "lexicon", Check: healthyCheck},
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "fail",
			wantChecks: map[string]string{
				"directory": "fail: connection refused",
				"lexicon":   "ok",
			},
		},
		{
			name: "everything down",
			checkers: []Checker{
				{Name: "directory", Check: failingCheck("timeout")},
				{Name: "lexicon", Check: failingCheck("overlay unreadable")},
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "fail",
			wantChecks: map[string]string{
				"directory": "fail: timeout",
				"lexicon":   "fail: overlay unreadable",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec, body := probe(t, New(tc.checkers...).Readyz, "/readyz")
			if rec.Code != tc.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantCode)
			}
			if body.Status != tc.wantStatus {
				t.Errorf("body status = %q, want %q", body.Status, tc.wantStatus)
			}
			for name, want := range tc.wantChecks {
				if got := body.Checks[name]; got != want {
					t.Errorf("check %q = %q, want %q", name, got, want)
				}
			}
		})
	}
}

func TestReadyz_RunsEveryChecker(t *testing.T) {
	t.Parallel()

	// A failure must not short-circuit the remaining checkers; the
	// response reports each one.
	var ran atomic.Int32
	counted := func(_ context.Context) error {
		ran.Add(1)
		return nil
	}
	h := New(
		Checker{Name: "directory", Check: failingCheck("down")},
		Checker{Name: "lexicon", Check: counted},
		Checker{Name: "sessions", Check: counted},
	)

	_, body := probe(t, h.Readyz, "/readyz")
	if got := ran.Load(); got != 2 {
		t.Errorf("ran %d healthy checkers, want 2", got)
	}
	if len(body.Checks) != 3 {
		t.Errorf("response carries %d checks, want 3", len(body.Checks))
	}
}

func TestReadyz_CancelledRequest(t *testing.T) {
	t.Parallel()
	h := New(Checker{Name: "slow", Check: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := httptest.NewRecorder()
	h.Readyz(rec, httptest.NewRequest("GET", "/readyz", nil).WithContext(ctx))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	New(Checker{Name: "directory", Check: healthyCheck}).Register(mux)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}
