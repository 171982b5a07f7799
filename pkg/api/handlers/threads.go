package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterThreads registers thread endpoints on r (mounted under /v1).
func RegisterThreads(r *mux.Router, env Env) {
	r.HandleFunc("/threads/{threadID}", env.getThread).Methods(http.MethodGet)
}

// getThread lists a thread's messages sorted by creation time
// ascending. An unknown thread id yields an empty list, not a 404 — a
// thread with no messages and no thread are the same thing here.
func (e Env) getThread(w http.ResponseWriter, r *http.Request) {
	threadID := mux.Vars(r)["threadID"]
	jsonWrite(w, http.StatusOK, messageList{Messages: e.Repo.Thread(threadID)})
}
