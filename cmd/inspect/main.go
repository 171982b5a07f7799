// inspect dumps a Hereafter data directory: the message file as parsed
// records and the settings keys. Handy when debugging what the store
// actually holds.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hereafter/pkg/logger"
	"hereafter/pkg/settings"
	"hereafter/pkg/store"
	"hereafter/pkg/unlock"
)

func main() {
	var dataDir string
	flag.StringVar(&dataDir, "data", "./data", "data directory to inspect")
	flag.Parse()
	logger.Init("error")

	repo, err := store.Open(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open message store: %v\n", err)
		os.Exit(1)
	}
	now := time.Now()
	msgs := repo.All()
	fmt.Printf("messages: %d\n", len(msgs))
	for _, m := range msgs {
		state := "locked"
		if unlock.IsUnlocked(m, now) {
			if m.IsRead {
				state = "read"
			} else {
				state = "unlocked"
			}
		}
		place := m.PlaceName
		if place == "" {
			place = fmt.Sprintf("(%.4f, %.4f)", m.Latitude, m.Longitude)
		}
		fmt.Printf("  %s  %-8s  %s  planted %s  opens %s\n",
			m.ID, state, place,
			unlock.ShortDate(m.CreatedAt), unlock.ShortDate(m.UnlockDate))
	}

	st, err := settings.Open(filepath.Join(dataDir, "settings"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "open settings store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if p, ok, err := st.LoadProfile(); err == nil && ok {
		b, _ := json.Marshal(p)
		fmt.Printf("profile: %s\n", b)
	} else {
		fmt.Println("profile: none")
	}
	keys, err := st.Keys("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "list settings keys: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("settings keys: %d\n", len(keys))
	for _, k := range keys {
		fmt.Printf("  %s\n", k)
	}
}
