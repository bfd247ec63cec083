// Package registry provides the HTTP client for the launchpad registry,
// the service that records token launches and hands deployment off to a
// human with a wallet.
package registry
