package banner

import (
	"fmt"

	"hereafter/pkg/config"
)

const banner = `
██╗  ██╗███████╗██████╗ ███████╗ █████╗ ███████╗████████╗███████╗██████╗
██║  ██║██╔════╝██╔══██╗██╔════╝██╔══██╗██╔════╝╚══██╔══╝██╔════╝██╔══██╗
███████║█████╗  ██████╔╝█████╗  ███████║█████╗     ██║   █████╗  ██████╔╝
██╔══██║██╔══╝  ██╔══██╗██╔══╝  ██╔══██║██╔══╝     ██║   ██╔══╝  ██╔══██╗
██║  ██║███████╗██║  ██║███████╗██║  ██║██║        ██║   ███████╗██║  ██║
╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝╚═╝        ╚═╝   ╚══════╝╚═╝  ╚═╝
`

// Print shows the startup banner with the effective runtime info.
func Print(eff config.Effective, version string) {
	c := eff.Config
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:    %s\n", c.Addr())
	fmt.Printf("Data dir:  %s\n", c.Storage.DataDir)
	fmt.Printf("Radius:    %.0fm\n", c.Proximity.RadiusMeters)
	if c.Unlock.Enabled {
		fmt.Printf("Sweep:     %s\n", c.Unlock.Cron)
	} else {
		fmt.Println("Sweep:     disabled")
	}
	if version != "" {
		fmt.Printf("Version:   %s\n", version)
	}
	fmt.Printf("Config sources: %s\n", eff.Source)
	fmt.Println("\n== Endpoints ==================================================")
	fmt.Println("POST /v1/messages - Plant a message (text, latitude, longitude, unlockDate)")
	fmt.Println("GET  /v1/messages/near?lat=&lng=&radius= - Messages anchored nearby")
	fmt.Println("GET  /v1/messages/unread - Unlocked, unread messages")
	fmt.Println("POST /v1/messages/{id}/read - Mark a message read")
	fmt.Println("GET  /v1/threads/{threadID} - A thread's messages, oldest first")
	fmt.Println("\n== Examples ===================================================")
	fmt.Printf("curl -X POST 'http://%s/v1/messages' -d '{\"text\":\"hello future\",\"latitude\":37.77,\"longitude\":-122.42,\"unlockDate\":\"2027-03-03\"}'\n", c.Addr())
	fmt.Printf("curl 'http://%s/v1/messages/near?lat=37.77&lng=-122.42'\n", c.Addr())
}
