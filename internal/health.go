package internal

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultReadinessPath answers readiness probes ahead of the dispatcher.
const DefaultReadinessPath = "/_pagon/ready"

const readinessTimeout = 5 * time.Second

// CheckFunc is a readiness check, e.g. a database ping.
type CheckFunc func(ctx context.Context) error

type healthChecks map[string]CheckFunc

type checkResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessReport struct {
	Checks map[string]checkResult `json:"checks,omitempty"`
	Status string                 `json:"status"`
}

func (r *readinessReport) ready() bool { return r.Status == "healthy" }

// readinessHandler serves the probe: 200 when every check passed, 503
// otherwise. The body is plain text unless the client asks for JSON with
// ?format=json or an Accept header.
func readinessHandler(checks healthChecks, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := runChecks(r.Context(), checks, readinessTimeout, log)

		code, text := http.StatusOK, "OK"
		if !report.ready() {
			code, text = http.StatusServiceUnavailable, "Service Unavailable"
		}

		if r.URL.Query().Get("format") == "json" || strings.Contains(r.Header.Get("Accept"), "application/json") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(code)
			_ = json.NewEncoder(w).Encode(report)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(code)
		_, _ = w.Write([]byte(text))
	}
}

// runChecks runs every check concurrently under one timeout. A failing
// check does not cancel the others.
func runChecks(ctx context.Context, checks healthChecks, timeout time.Duration, log *slog.Logger) *readinessReport {
	report := &readinessReport{Status: "healthy"}
	if len(checks) == 0 {
		return report
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	report.Checks = make(map[string]checkResult, len(checks))
	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for name, check := range checks {
		g.Go(func() error {
			res := checkResult{Status: "healthy"}
			if err := check(ctx); err != nil {
				res = checkResult{Status: "unhealthy", Error: err.Error()}
				log.WarnContext(ctx, "readiness check failed",
					slog.String("check", name),
					slog.Any("error", err),
				)
			}

			mu.Lock()
			defer mu.Unlock()
			report.Checks[name] = res
			if res.Error != "" {
				report.Status = "unhealthy"
			}
			return nil
		})
	}
	_ = g.Wait()

	return report
}
