package app

import "hereafter/pkg/banner"

// printBanner prints the startup banner and build info.
func (a *App) printBanner() {
	banner.Print(a.eff, a.version)
}
