package telemetry

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"penaltyshot/internal/shared/types"
)

const defaultListLimit = 100

// EventsHandler serves GET (recent events, ?limit=N) and POST (ingest one
// event) on /v1/events.
func EventsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var ev types.TelemetryEvent
			if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_request"})
				return
			}
			if ev.EventType == "" {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "event_type_required"})
				return
			}
			if ev.EventID == "" {
				ev.EventID = fmt.Sprintf("ev_%d", time.Now().UTC().UnixNano())
			}
			if ev.Timestamp == 0 {
				ev.Timestamp = time.Now().UTC().UnixMilli()
			}
			store.Ingest(ev)
			writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted", "event_id": ev.EventID})
		case http.MethodGet:
			limit := defaultListLimit
			if raw := r.URL.Query().Get("limit"); raw != "" {
				n, err := strconv.Atoi(raw)
				if err != nil || n < 0 {
					writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_limit"})
					return
				}
				limit = n
			}
			recent := store.ListRecent(limit)
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"count":  len(recent),
				"events": recent,
			})
		default:
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method_not_allowed"})
		}
	}
}

// MetricsHandler writes the counters in Prometheus text format. Gauges are
// sampled at scrape time, e.g. the open session count.
func MetricsHandler(store *Store, gauges map[string]func() int64) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		summary := store.Summary()
		_, _ = fmt.Fprintln(w, "# HELP shootout_events_total Total telemetry events ingested")
		_, _ = fmt.Fprintln(w, "# TYPE shootout_events_total counter")
		_, _ = fmt.Fprintf(w, "shootout_events_total %d\n", summary.Total)

		eventTypes := make([]string, 0, len(summary.ByType))
		for typ := range summary.ByType {
			eventTypes = append(eventTypes, typ)
		}
		sort.Strings(eventTypes)
		for _, typ := range eventTypes {
			_, _ = fmt.Fprintf(w, "shootout_events_by_type{event_type=%q} %d\n", typ, summary.ByType[typ])
		}

		names := make([]string, 0, len(gauges))
		for name := range gauges {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			_, _ = fmt.Fprintf(w, "# TYPE %s gauge\n%s %d\n", name, name, gauges[name]())
		}
	}
}

// WithCORS allows browser clients on other origins.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
