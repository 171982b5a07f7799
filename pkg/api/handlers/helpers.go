package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"hereafter/pkg/models"
	"hereafter/pkg/notify"
	"hereafter/pkg/settings"
	"hereafter/pkg/store"
)

// Env carries the explicitly constructed services the handlers use.
// Nothing here is a package global; the app wires one Env at startup.
type Env struct {
	Repo     *store.Repository
	Settings *settings.Store
	Notifier notify.Notifier

	// RadiusMeters is the default nearby radius for queries that do
	// not pass their own.
	RadiusMeters float64
	// AllowToday permits unlock dates of "today" at composition time.
	AllowToday bool

	// Now is the clock; tests override it.
	Now func() time.Time
}

func (e Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// jsonError writes a JSON error response with the given status code.
func jsonError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// jsonWrite writes v as JSON with the given status code.
func jsonWrite(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(v)
}

// messageList is the wire shape for every list response.
type messageList struct {
	Messages []models.Message `json:"messages"`
}
