// Package updater checks GitHub Releases for versions newer than the
// running binary. A daily-cached check powers the startup notice and
// the version command; installation stays with the user's package
// manager.
package updater
