// Package inspect exposes a cache store over HTTP for debugging. Mount the
// handler behind a debug flag only; it is not part of the cache's
// correctness surface.
package inspect

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	httpdata "github.com/championswimmer/wp-calypso"
)

// Handler serves a read-only JSON view of the store:
//
//	GET /keys           all keys ever written
//	GET /tick           current mutation counter
//	GET /entries/{key}  one entry (sentinel view for absent keys)
func Handler(store *httpdata.Store) http.Handler {
	r := chi.NewRouter()

	r.Get("/keys", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"keys": store.Keys(), "count": store.Len()})
	})

	r.Get("/tick", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]uint64{"tick": store.Tick()})
	})

	r.Get("/entries/{key}", func(w http.ResponseWriter, req *http.Request) {
		key := chi.URLParam(req, "key")
		writeJSON(w, viewOf(key, store.Get(key)))
	})

	return r
}

type entryView struct {
	Key          string     `json:"key"`
	State        string     `json:"state"`
	Data         any        `json:"data,omitempty"`
	Error        string     `json:"error,omitempty"`
	LastUpdated  *time.Time `json:"lastUpdated,omitempty"`
	PendingSince *time.Time `json:"pendingSince,omitempty"`
}

func viewOf(key string, e httpdata.Entry) entryView {
	v := entryView{Key: key, State: e.State.String(), Data: e.Data}
	if e.Err != nil {
		v.Error = e.Err.Error()
	}
	if !e.LastUpdated.IsZero() {
		t := e.LastUpdated
		v.LastUpdated = &t
	}
	if !e.PendingSince.IsZero() {
		t := e.PendingSince
		v.PendingSince = &t
	}
	return v
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
