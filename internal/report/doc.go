// Package report renders a launch outcome for humans or machines. Machine
// mode writes exactly one JSON document to the output channel so scripts
// and other agents can consume the result without scraping narration.
package report
