package settings

import (
	"path/filepath"
	"testing"

	"hereafter/pkg/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "settings"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestProfileLifecycle(t *testing.T) {
	s := openTestStore(t)

	if _, ok, err := s.LoadProfile(); err != nil || ok {
		t.Fatalf("fresh store must have no profile: ok=%v err=%v", ok, err)
	}

	p := models.NewProfile("June")
	if p.DeviceID == "" {
		t.Fatalf("profile must carry a device id")
	}
	if p.HasCompletedOnboarding {
		t.Fatalf("onboarding starts incomplete")
	}
	if err := s.SaveProfile(p); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	got, ok, err := s.LoadProfile()
	if err != nil || !ok {
		t.Fatalf("LoadProfile: ok=%v err=%v", ok, err)
	}
	if got.FirstName != "June" || got.DeviceID != p.DeviceID {
		t.Fatalf("profile mismatch: %+v", got)
	}

	// save is a wholesale overwrite
	got.FirstName = "Juniper"
	got.HasCompletedOnboarding = true
	if err := s.SaveProfile(got); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got2, ok, _ := s.LoadProfile()
	if !ok || got2.FirstName != "Juniper" || !got2.HasCompletedOnboarding {
		t.Fatalf("overwrite not applied: %+v", got2)
	}

	if err := s.ClearProfile(); err != nil {
		t.Fatalf("ClearProfile: %v", err)
	}
	if _, ok, _ := s.LoadProfile(); ok {
		t.Fatalf("profile must be absent after clear")
	}
}

func TestCorruptProfileTreatedAsAbsent(t *testing.T) {
	s := openTestStore(t)
	if err := s.Set(ProfileKey, []byte("{broken")); err != nil {
		t.Fatalf("seed corrupt: %v", err)
	}
	_, ok, err := s.LoadProfile()
	if err != nil {
		t.Fatalf("corrupt profile must not error: %v", err)
	}
	if ok {
		t.Fatalf("corrupt profile must read as absent")
	}
}

func TestKeysPrefixScan(t *testing.T) {
	s := openTestStore(t)
	_ = s.Set("notify:a", []byte("1"))
	_ = s.Set("notify:b", []byte("1"))
	_ = s.Set("profile:user", []byte("{}"))
	keys, err := s.Keys("notify:")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "notify:a" || keys[1] != "notify:b" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}
