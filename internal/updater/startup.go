package updater

import (
	"fmt"
	"io"
	"time"

	"github.com/agentlaunch-labs/agentlaunch/internal/branding"
)

// CheckAndPrintNotice checks the version cache and prints a newer-release
// notice if one is available. It never blocks: when the cache is stale a
// background goroutine refreshes it for the next invocation.
func (u *Updater) CheckAndPrintNotice(w io.Writer, configDir string) {
	cache, err := LoadCache(configDir)
	if err != nil {
		// Silently ignore cache errors.
		return
	}

	if cache != nil && cache.UpdateAvailable {
		PrintReleaseNotice(w, cache.CurrentVersion, cache.LatestVersion, cache.ReleaseURL)
	}

	// Refresh cache in background if stale.
	if IsCacheStale(cache, DefaultCacheMaxAge) {
		go u.refreshCache(configDir)
	}
}

// PrintReleaseNotice prints the newer-release notification to w.
func PrintReleaseNotice(w io.Writer, current, latest, releaseURL string) {
	if releaseURL == "" {
		releaseURL = fmt.Sprintf("https://github.com/%s/releases", branding.GitHubRepo())
	}
	fmt.Fprintf(w, "\nA newer release is available: %s -> %s\n", current, latest)
	fmt.Fprintf(w, "    %s\n\n", releaseURL)
}

// refreshCache fetches the latest version and updates the cache file.
// This runs in a background goroutine and never fails loudly.
func (u *Updater) refreshCache(configDir string) {
	release, err := u.CheckLatestVersion()
	if err != nil {
		return
	}

	available, err := IsUpdateAvailable(u.currentVersion, release.Version)
	if err != nil {
		return
	}

	cache := &VersionCache{
		LatestVersion:   release.Version,
		CurrentVersion:  u.currentVersion,
		ReleaseURL:      release.HTMLURL,
		CheckedAt:       time.Now(),
		UpdateAvailable: available,
	}

	// Silently ignore save errors.
	_ = SaveCache(configDir, cache)
}
