package health

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dmitrymomot/jobrpc/pkg/envelope"
)

// LivenessHandler answers OK while the process is serving.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if wantsJSON(r) {
			writeJSON(w, http.StatusOK, envelope.OK())
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// ReadinessHandler runs checks on every request. Unhealthy answers 503;
// the JSON form is a {code,msg,data} envelope whose data holds each check.
func ReadinessHandler(checks Checks, opts ...Option) http.HandlerFunc {
	cfg := newConfig(opts...)

	return func(w http.ResponseWriter, r *http.Request) {
		report := run(r.Context(), checks, cfg)

		status := http.StatusOK
		if !report.Healthy() {
			status = http.StatusServiceUnavailable
		}

		if wantsJSON(r) {
			env := envelope.Success(report.Checks)
			if !report.Healthy() {
				env.Code = envelope.FailCode
			}
			env.Msg = report.Summary()
			writeJSON(w, status, env)
			return
		}

		w.WriteHeader(status)
		_, _ = w.Write([]byte(report.Summary()))
	}
}

func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
