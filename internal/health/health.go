// Package health serves the Kubernetes-style probe endpoints for the
// assistant:
//
//   - /healthz — liveness; a process that can answer HTTP is alive.
//   - /readyz  — readiness; passes only while every registered [Checker]
//     (the campus directory store, typically) answers within the timeout.
//
// Both respond with a JSON body carrying "status" ("ok" or "fail"); /readyz
// adds a "checks" map with one entry per checker.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// defaultCheckTimeout bounds a single readiness check. A directory backend
// that cannot answer a ping in this window is not ready.
const defaultCheckTimeout = 5 * time.Second

// Checker is a named readiness check. Check returns nil while the dependency
// can serve and an error describing the outage otherwise.
type Checker struct {
	// Name keys this check in the /readyz response, e.g. "directory".
	Name string

	// Check probes the dependency and must honour ctx cancellation.
	Check func(ctx context.Context) error
}

type probeResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Handler answers /healthz and /readyz. The checker list is fixed at
// construction, so a Handler is safe for concurrent use.
type Handler struct {
	checkers []Checker
	timeout  time.Duration
}

// New builds a [Handler] over the given checkers. On /readyz the checkers
// run concurrently, each bounded by the check timeout.
func New(checkers ...Checker) *Handler {
	h := &Handler{
		checkers: make([]Checker, len(checkers)),
		timeout:  defaultCheckTimeout,
	}
	copy(h.checkers, checkers)
	return h
}

// Healthz reports liveness. It never fails.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, probeResponse{Status: "ok"})
}

// Readyz runs every checker and reports 200 only when all of them pass.
// Failures show up as "fail: <error>" under the checker's name so an
// operator can tell a directory outage from anything else at a glance.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	statuses := make([]string, len(h.checkers))
	var g errgroup.Group
	for i, c := range h.checkers {
		g.Go(func() error {
			if err := c.Check(ctx); err != nil {
				statuses[i] = "fail: " + err.Error()
				return err
			}
			statuses[i] = "ok"
			return nil
		})
	}
	failed := g.Wait() != nil

	res := probeResponse{
		Status: "ok",
		Checks: make(map[string]string, len(h.checkers)),
	}
	for i, c := range h.checkers {
		res.Checks[c.Name] = statuses[i]
	}
	code := http.StatusOK
	if failed {
		res.Status = "fail"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, res)
}

// Register mounts the probe routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"status":"error"}`, http.StatusInternalServerError)
	}
}
