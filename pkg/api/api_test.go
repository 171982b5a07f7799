package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"hereafter/pkg/api/handlers"
	"hereafter/pkg/models"
	"hereafter/pkg/notify"
	"hereafter/pkg/settings"
	"hereafter/pkg/store"
)

type testEnv struct {
	srv      *httptest.Server
	repo     *store.Repository
	settings *settings.Store
	now      time.Time
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	repo, err := store.Open(dir)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	st, err := settings.Open(filepath.Join(dir, "settings"))
	if err != nil {
		t.Fatalf("settings.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	te := &testEnv{repo: repo, settings: st, now: time.Now()}
	env := handlers.Env{
		Repo:         repo,
		Settings:     st,
		Notifier:     notify.NewLogNotifier(st),
		RadiusMeters: 150,
		Now:          func() time.Time { return te.now },
	}
	te.srv = httptest.NewServer(Handler(env, Options{}))
	t.Cleanup(te.srv.Close)
	return te
}

func (te *testEnv) postJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	b, _ := json.Marshal(body)
	resp, err := http.Post(te.srv.URL+path, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func decodeList(t *testing.T, resp *http.Response) []models.Message {
	t.Helper()
	defer resp.Body.Close()
	var out struct {
		Messages []models.Message `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	return out.Messages
}

func createProfile(t *testing.T, te *testEnv, name string) {
	t.Helper()
	req, _ := http.NewRequest(http.MethodPut, te.srv.URL+"/v1/profile",
		bytes.NewReader([]byte(fmt.Sprintf(`{"firstName":%q}`, name))))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT profile: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT profile status %d", resp.StatusCode)
	}
}

func TestPlantAndQueryFlow(t *testing.T) {
	te := setup(t)
	createProfile(t, te, "June")

	unlockDate := te.now.AddDate(0, 6, 0).Format("2006-01-02")
	resp := te.postJSON(t, "/v1/messages", map[string]any{
		"text":       "see you at the beach",
		"latitude":   37.7749,
		"longitude":  -122.4194,
		"placeName":  "Ocean Beach",
		"unlockDate": unlockDate,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status %d", resp.StatusCode)
	}
	var created struct {
		models.Message
		IsUnlocked      bool `json:"isUnlocked"`
		DaysUntilUnlock *int `json:"daysUntilUnlock"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	resp.Body.Close()
	if created.ID == "" || created.ThreadID != created.ID {
		t.Fatalf("bad identifiers: %+v", created.Message)
	}
	if created.CreatorID == "unknown" || created.CreatorID == "" {
		t.Fatalf("creator must come from the profile: %q", created.CreatorID)
	}
	if created.IsUnlocked || created.DaysUntilUnlock == nil {
		t.Fatalf("six-month lock must report locked with days remaining")
	}

	// near the anchor
	resp, err := http.Get(te.srv.URL + "/v1/messages/near?lat=37.7749&lng=-122.4194")
	if err != nil {
		t.Fatalf("GET near: %v", err)
	}
	if got := decodeList(t, resp); len(got) != 1 || got[0].ID != created.ID {
		t.Fatalf("near query missed the message: %v", got)
	}

	// far away
	resp, err = http.Get(te.srv.URL + "/v1/messages/near?lat=0&lng=0")
	if err != nil {
		t.Fatalf("GET near far: %v", err)
	}
	if got := decodeList(t, resp); len(got) != 0 {
		t.Fatalf("far query must be empty: %v", got)
	}

	// still locked, so no unread-unlocked results
	resp, err = http.Get(te.srv.URL + "/v1/messages/unread")
	if err != nil {
		t.Fatalf("GET unread: %v", err)
	}
	if got := decodeList(t, resp); len(got) != 0 {
		t.Fatalf("locked message must not be unread-unlocked: %v", got)
	}

	// time travel past the unlock day
	te.now = te.now.AddDate(0, 7, 0)
	resp, err = http.Get(te.srv.URL + "/v1/messages/unread")
	if err != nil {
		t.Fatalf("GET unread later: %v", err)
	}
	if got := decodeList(t, resp); len(got) != 1 {
		t.Fatalf("expected one unread-unlocked message: %v", got)
	}

	// mark read; idempotent and silent for unknown ids
	for _, id := range []string{created.ID, created.ID, "no-such-id"} {
		resp = te.postJSON(t, "/v1/messages/"+id+"/read", nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("mark read %s: status %d", id, resp.StatusCode)
		}
	}
	resp, err = http.Get(te.srv.URL + "/v1/messages/unread")
	if err != nil {
		t.Fatalf("GET unread after read: %v", err)
	}
	if got := decodeList(t, resp); len(got) != 0 {
		t.Fatalf("read message still listed: %v", got)
	}
}

func TestCreateRejectsPastUnlockDate(t *testing.T) {
	te := setup(t)
	createProfile(t, te, "June")
	resp := te.postJSON(t, "/v1/messages", map[string]any{
		"text":       "too late",
		"latitude":   1.0,
		"longitude":  1.0,
		"unlockDate": te.now.AddDate(0, 0, -1).Format("2006-01-02"),
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("past unlock date accepted: %d", resp.StatusCode)
	}
}

func TestCreateRejectsBadCoordinate(t *testing.T) {
	te := setup(t)
	createProfile(t, te, "June")
	resp := te.postJSON(t, "/v1/messages", map[string]any{
		"text":       "off the map",
		"latitude":   123.0,
		"longitude":  1.0,
		"unlockDate": te.now.AddDate(0, 1, 0).Format("2006-01-02"),
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad latitude accepted: %d", resp.StatusCode)
	}
}

func TestThreadEndpointSortsReplies(t *testing.T) {
	te := setup(t)
	createProfile(t, te, "June")
	unlockDate := te.now.AddDate(0, 1, 0).Format("2006-01-02")

	resp := te.postJSON(t, "/v1/messages", map[string]any{
		"text": "root", "latitude": 1.0, "longitude": 1.0, "unlockDate": unlockDate,
	})
	var root models.Message
	_ = json.NewDecoder(resp.Body).Decode(&root)
	resp.Body.Close()

	resp = te.postJSON(t, "/v1/messages", map[string]any{
		"text": "reply", "latitude": 1.0, "longitude": 1.0, "unlockDate": unlockDate,
		"threadID": root.ThreadID, "parentMessageID": root.ID,
	})
	resp.Body.Close()

	resp, err := http.Get(te.srv.URL + "/v1/threads/" + root.ThreadID)
	if err != nil {
		t.Fatalf("GET thread: %v", err)
	}
	got := decodeList(t, resp)
	if len(got) != 2 || got[0].ID != root.ID {
		t.Fatalf("thread listing wrong: %v", got)
	}
	if got[1].ParentMessageID != root.ID {
		t.Fatalf("reply lost its parent: %+v", got[1])
	}

	// unknown thread returns an empty list, not an error
	resp, err = http.Get(te.srv.URL + "/v1/threads/nope")
	if err != nil {
		t.Fatalf("GET unknown thread: %v", err)
	}
	if got := decodeList(t, resp); len(got) != 0 {
		t.Fatalf("unknown thread must be empty: %v", got)
	}
}

func TestProfileLifecycleOverHTTP(t *testing.T) {
	te := setup(t)

	resp, err := http.Get(te.srv.URL + "/v1/profile")
	if err != nil {
		t.Fatalf("GET profile: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("fresh install must 404 on profile: %d", resp.StatusCode)
	}

	createProfile(t, te, "June")

	resp = te.postJSON(t, "/v1/profile/onboarding", nil)
	var p models.UserProfile
	_ = json.NewDecoder(resp.Body).Decode(&p)
	resp.Body.Close()
	if !p.HasCompletedOnboarding {
		t.Fatalf("onboarding flag not set: %+v", p)
	}

	// rename keeps the device id
	createProfile(t, te, "Juniper")
	resp, _ = http.Get(te.srv.URL + "/v1/profile")
	var p2 models.UserProfile
	_ = json.NewDecoder(resp.Body).Decode(&p2)
	resp.Body.Close()
	if p2.FirstName != "Juniper" || p2.DeviceID != p.DeviceID {
		t.Fatalf("rename lost identity: %+v vs %+v", p2, p)
	}
	if !p2.HasCompletedOnboarding {
		t.Fatalf("onboarding flag must never reset")
	}

	req, _ := http.NewRequest(http.MethodDelete, te.srv.URL+"/v1/profile", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE profile: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE profile status %d", resp.StatusCode)
	}
	resp, _ = http.Get(te.srv.URL + "/v1/profile")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("profile must be gone after reset: %d", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	te := setup(t)
	resp, err := http.Get(te.srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status %d", resp.StatusCode)
	}
}
