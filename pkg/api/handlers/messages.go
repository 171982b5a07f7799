package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"hereafter/pkg/logger"
	"hereafter/pkg/models"
	"hereafter/pkg/unlock"
	"hereafter/pkg/validation"
)

// RegisterMessages registers HTTP handlers for message endpoints on r
// (mounted under /v1).
func RegisterMessages(r *mux.Router, env Env) {
	r.HandleFunc("/messages", env.createMessage).Methods(http.MethodPost)
	r.HandleFunc("/messages", env.listMessages).Methods(http.MethodGet)
	r.HandleFunc("/messages/near", env.listNear).Methods(http.MethodGet)
	r.HandleFunc("/messages/unread", env.listUnread).Methods(http.MethodGet)
	r.HandleFunc("/messages/{id}/read", env.markRead).Methods(http.MethodPost)
}

// createRequest is the compose+plant payload. The server generates the
// id, stamps createdAt, truncates text and defaults creatorID to the
// profile's device id.
type createRequest struct {
	Text            string  `json:"text"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	PlaceName       string  `json:"placeName,omitempty"`
	UnlockDate      string  `json:"unlockDate"`
	ThreadID        string  `json:"threadID,omitempty"`
	ParentMessageID string  `json:"parentMessageID,omitempty"`
}

// messageView decorates a Message with the derived unlock fields the
// UI renders.
type messageView struct {
	models.Message
	IsUnlocked      bool   `json:"isUnlocked"`
	DaysUntilUnlock *int   `json:"daysUntilUnlock,omitempty"`
	TimeSincePlant  string `json:"timeSincePlanted"`
}

func (e Env) view(m models.Message) messageView {
	now := e.now()
	v := messageView{
		Message:        m,
		IsUnlocked:     unlock.IsUnlocked(m, now),
		TimeSincePlant: unlock.RelativeAge(m.CreatedAt, now),
	}
	if days, ok := unlock.DaysUntilUnlock(m, now); ok {
		v.DaysUntilUnlock = &days
	}
	return v
}

func (e Env) createMessage(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid json")
		return
	}
	unlockDate, err := parseUnlockDate(req.UnlockDate)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid unlockDate: "+err.Error())
		return
	}
	if err := validation.ValidateUnlockDate(unlockDate, e.now(), e.AllowToday); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	creatorID := "unknown"
	if p, ok, _ := e.Settings.LoadProfile(); ok {
		creatorID = p.DeviceID
	}

	m := models.NewMessage(models.NewMessageParams{
		Text:            req.Text,
		UnlockDate:      unlockDate,
		Coordinate:      models.Coordinate{Latitude: req.Latitude, Longitude: req.Longitude},
		PlaceName:       req.PlaceName,
		ThreadID:        req.ThreadID,
		ParentMessageID: req.ParentMessageID,
		CreatorID:       creatorID,
	})
	if err := validation.ValidateMessage(m); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := e.Repo.Append(m); err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if e.Notifier != nil {
		if err := e.Notifier.ScheduleUnlock(m); err != nil {
			logger.Log.Warn("unlock_alert_schedule_failed", zap.String("id", m.ID), zap.Error(err))
		}
	}
	logger.Log.Info("message_planted", zap.String("id", m.ID), zap.String("thread", m.ThreadID))
	jsonWrite(w, http.StatusCreated, e.view(m))
}

func (e Env) listMessages(w http.ResponseWriter, r *http.Request) {
	jsonWrite(w, http.StatusOK, messageList{Messages: e.Repo.All()})
}

func (e Env) listNear(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
	if errLat != nil || errLng != nil {
		jsonError(w, http.StatusBadRequest, "lat and lng are required")
		return
	}
	radius := e.RadiusMeters
	if rs := q.Get("radius"); rs != "" {
		rr, err := strconv.ParseFloat(rs, 64)
		if err != nil || rr <= 0 {
			jsonError(w, http.StatusBadRequest, "invalid radius")
			return
		}
		radius = rr
	}
	coord := models.Coordinate{Latitude: lat, Longitude: lng}
	jsonWrite(w, http.StatusOK, messageList{Messages: e.Repo.Near(coord, radius)})
}

func (e Env) listUnread(w http.ResponseWriter, r *http.Request) {
	jsonWrite(w, http.StatusOK, messageList{Messages: e.Repo.UnreadUnlocked(e.now())})
}

// markRead flips the read flag. The repository treats an unknown id as
// a silent no-op, and so does this endpoint: 204 either way.
func (e Env) markRead(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := e.Repo.MarkRead(id); err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if e.Notifier != nil {
		_ = e.Notifier.Cancel(id)
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseUnlockDate accepts a bare date or a full RFC3339 timestamp; the
// time component is ignored either way.
func parseUnlockDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
