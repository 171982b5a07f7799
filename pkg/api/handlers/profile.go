package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"hereafter/pkg/logger"
	"hereafter/pkg/models"
)

// RegisterProfile registers profile endpoints on r (mounted under /v1).
func RegisterProfile(r *mux.Router, env Env) {
	r.HandleFunc("/profile", env.getProfile).Methods(http.MethodGet)
	r.HandleFunc("/profile", env.putProfile).Methods(http.MethodPut)
	r.HandleFunc("/profile", env.deleteProfile).Methods(http.MethodDelete)
	r.HandleFunc("/profile/onboarding", env.completeOnboarding).Methods(http.MethodPost)
}

func (e Env) getProfile(w http.ResponseWriter, r *http.Request) {
	p, ok, err := e.Settings.LoadProfile()
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		jsonError(w, http.StatusNotFound, "no profile")
		return
	}
	jsonWrite(w, http.StatusOK, p)
}

// putProfile creates the profile on first call and afterwards only
// updates the mutable first name. CreatedAt, DeviceID and a completed
// onboarding flag never move backwards.
func (e Env) putProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"firstName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid json")
		return
	}
	name := strings.TrimSpace(req.FirstName)
	if name == "" {
		jsonError(w, http.StatusBadRequest, "firstName is required")
		return
	}

	p, ok, err := e.Settings.LoadProfile()
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		p = models.NewProfile(name)
		logger.Log.Info("profile_created", zap.String("device_id", p.DeviceID))
	} else {
		p.FirstName = name
	}
	if err := e.Settings.SaveProfile(p); err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	jsonWrite(w, http.StatusOK, p)
}

func (e Env) deleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := e.Settings.ClearProfile(); err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	logger.Log.Info("profile_cleared")
	w.WriteHeader(http.StatusNoContent)
}

// completeOnboarding flips the one-way onboarding flag. Requires an
// existing profile.
func (e Env) completeOnboarding(w http.ResponseWriter, r *http.Request) {
	p, ok, err := e.Settings.LoadProfile()
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		jsonError(w, http.StatusNotFound, "no profile")
		return
	}
	if !p.HasCompletedOnboarding {
		p.HasCompletedOnboarding = true
		if err := e.Settings.SaveProfile(p); err != nil {
			jsonError(w, http.StatusInternalServerError, err.Error())
			return
		}
		logger.Log.Info("onboarding_complete", zap.String("first_name", p.FirstName))
	}
	jsonWrite(w, http.StatusOK, p)
}
